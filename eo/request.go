package eo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/go-eoget/eo/model"
	"github.com/example/go-eoget/eo/region"
)

var (
	// ErrMissingDestination indicates a request was built without a destination.
	ErrMissingDestination = errors.New("eo: destination is required")
	// ErrMissingName indicates a request was built without an artifact name.
	ErrMissingName = errors.New("eo: artifact name is required")
)

// Destination selects where the composited image ends up. Implementations
// are the three variants below; the interface is sealed.
type Destination interface {
	spec() model.DestinationSpec
}

// LocalDestination extracts per-band raster files into a local directory.
type LocalDestination struct {
	Dir string
}

func (d LocalDestination) spec() model.DestinationSpec {
	return model.DestinationSpec{Type: "local"}
}

// BucketDestination exports a single multi-band raster object into a remote
// storage bucket via an asynchronous service-side task.
type BucketDestination struct {
	Bucket string
	Prefix string
}

func (d BucketDestination) spec() model.DestinationSpec {
	return model.DestinationSpec{Type: "bucket", Bucket: d.Bucket, Prefix: d.Prefix}
}

// DriveDestination exports a single multi-band raster object into a remote
// drive folder via an asynchronous service-side task.
type DriveDestination struct {
	Folder string
}

func (d DriveDestination) spec() model.DestinationSpec {
	return model.DestinationSpec{Type: "drive", Folder: d.Folder}
}

// Request packages a bounding rectangle, the output pixel dimensions, a
// destination, and the artifact base name. A Request is constructed once,
// submitted once, and discarded.
type Request struct {
	Rect   region.Rect
	Pixels int
	Dest   Destination
	Name   string
}

// NewRequest assembles an immutable image request descriptor.
func NewRequest(rect region.Rect, pixels int, dest Destination, name string) (Request, error) {
	if pixels <= 0 {
		return Request{}, fmt.Errorf("eo: pixel count must be positive, got %d", pixels)
	}
	if dest == nil {
		return Request{}, ErrMissingDestination
	}
	if strings.TrimSpace(name) == "" {
		return Request{}, ErrMissingName
	}
	return Request{Rect: rect, Pixels: pixels, Dest: dest, Name: name}, nil
}

func (r Request) wire(rule map[string][]string) model.ImageRequest {
	spec := r.Dest.spec()
	return model.ImageRequest{
		BBox:        [4]float64{r.Rect.MinLon, r.Rect.MinLat, r.Rect.MaxLon, r.Rect.MaxLat},
		Width:       r.Pixels,
		Height:      r.Pixels,
		Name:        r.Name,
		Format:      "GEO_TIFF",
		Rule:        rule,
		Destination: &spec,
	}
}
