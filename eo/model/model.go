// Package model holds the wire types exchanged with the imagery service.
package model

// ImageRequest is the JSON body submitted for download, export, and
// thumbnail calls. BBox is serialised [minLon, minLat, maxLon, maxLat].
type ImageRequest struct {
	BBox        [4]float64          `json:"bbox"`
	Width       int                 `json:"width"`
	Height      int                 `json:"height"`
	Name        string              `json:"name"`
	Format      string              `json:"format,omitempty"`
	Rule        map[string][]string `json:"rule"`
	Destination *DestinationSpec    `json:"destination,omitempty"`
	Visualize   *VisualizeSpec      `json:"visualize,omitempty"`
}

// DestinationSpec describes where an exported artifact should land.
type DestinationSpec struct {
	Type   string `json:"type"`
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Folder string `json:"folder,omitempty"`
}

// VisualizeSpec carries the fixed visualization configuration for thumbnail
// rendering. The values are forwarded verbatim; the service applies them.
type VisualizeSpec struct {
	Bands  []string `json:"bands"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Gamma  float64  `json:"gamma,omitempty"`
	Format string   `json:"format"`
}

// DownloadResponse is returned by synchronous download and thumbnail calls.
type DownloadResponse struct {
	URL string `json:"url"`
}

// TaskEnvelope wraps the task returned by asynchronous export submissions.
type TaskEnvelope struct {
	Task TaskStatus `json:"task"`
}

// TaskStatus describes the state of an asynchronous export task.
type TaskStatus struct {
	ID             string `json:"id"`
	State          string `json:"state"`
	Error          string `json:"error,omitempty"`
	DestinationURI string `json:"destinationUri,omitempty"`
}
