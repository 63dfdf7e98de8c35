package eo

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/example/go-eoget/eo/composite"
	internalhttp "github.com/example/go-eoget/eo/internal/http"
	"github.com/example/go-eoget/eo/model"
)

// VisParams is the fixed visualization configuration applied by the service
// when rendering a thumbnail: band-to-channel mapping, value range, and
// gamma. The client forwards it verbatim.
type VisParams struct {
	Bands []string
	Min   float64
	Max   float64
	Gamma float64
}

// DefaultVisParams renders a true-color Sentinel-2 style preview.
func DefaultVisParams() VisParams {
	return VisParams{
		Bands: []string{"B4", "B3", "B2"},
		Min:   0,
		Max:   3000,
		Gamma: 1.4,
	}
}

// Thumbnail requests a remotely rendered preview of the composite and writes
// it as a JPEG named "<request name>.jpg" under dir ("." for the working
// directory). The decoded image is re-encoded locally so the artifact is
// always JPEG regardless of the service's response format.
func (c *Client) Thumbnail(ctx context.Context, req Request, rule composite.Rule, vis VisParams, dir string) (string, error) {
	encoded, err := rule.Encode()
	if err != nil {
		return "", fmt.Errorf("eo: encode rule: %w", err)
	}
	if _, err := NewRequest(req.Rect, req.Pixels, req.Dest, req.Name); err != nil {
		return "", err
	}
	if len(vis.Bands) == 0 {
		return "", fmt.Errorf("eo: visualization requires at least one band")
	}

	body := req.wire(encoded)
	body.Destination = nil
	body.Format = ""
	body.Visualize = &model.VisualizeSpec{
		Bands:  vis.Bands,
		Min:    vis.Min,
		Max:    vis.Max,
		Gamma:  vis.Gamma,
		Format: "jpg",
	}

	var resp model.DownloadResponse
	if err := c.postJSON(ctx, thumbnailEndpoint, body, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("eo: service returned no thumbnail URL")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolveURL(resp.URL), nil)
	if err != nil {
		return "", fmt.Errorf("eo: create request: %w", err)
	}
	if err := c.prepare(httpReq); err != nil {
		return "", err
	}

	imgResp, err := internalhttp.Do(ctx, c.httpClient, httpReq)
	if err != nil {
		return "", fmt.Errorf("eo: fetch thumbnail: %w", err)
	}
	defer imgResp.Body.Close()

	if imgResp.StatusCode != http.StatusOK {
		return "", internalhttp.HTTPError(imgResp)
	}

	img, err := imaging.Decode(imgResp.Body)
	if err != nil {
		return "", fmt.Errorf("eo: decode thumbnail: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	dest := filepath.Join(dir, req.Name+".jpg")
	if err := imaging.Save(img, dest); err != nil {
		return "", fmt.Errorf("eo: save thumbnail: %w", err)
	}
	return dest, nil
}
