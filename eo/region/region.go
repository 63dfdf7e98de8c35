// Package region derives geographic bounding rectangles from a center
// coordinate and a requested ground footprint.
package region

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DefaultVertexCount is the number of vertices used to approximate the
// geodesic buffer circle around the center point. More vertices tighten the
// envelope; the rectangle is always padded so it circumscribes the true
// circle regardless of the count.
const DefaultVertexCount = 64

// Point is a geographic coordinate in lon/lat order.
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint constructs a Point from longitude and latitude.
func NewPoint(lon, lat float64) Point {
	return Point{Lon: lon, Lat: lat}
}

func (p Point) orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Rect is an axis-aligned rectangle in geographic coordinates.
type Rect struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Contains reports whether the point lies strictly inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.Lon > r.MinLon && p.Lon < r.MaxLon && p.Lat > r.MinLat && p.Lat < r.MaxLat
}

// WidthMeters returns the ground distance spanned by the rectangle along its
// horizontal midline.
func (r Rect) WidthMeters() float64 {
	mid := (r.MinLat + r.MaxLat) / 2
	return geo.Distance(orb.Point{r.MinLon, mid}, orb.Point{r.MaxLon, mid})
}

// HeightMeters returns the ground distance spanned along the vertical midline.
func (r Rect) HeightMeters() float64 {
	mid := (r.MinLon + r.MaxLon) / 2
	return geo.Distance(orb.Point{mid, r.MinLat}, orb.Point{mid, r.MaxLat})
}

// Option configures the bounding rectangle computation.
type Option func(*config)

type config struct {
	vertexCount int
}

// WithVertexCount overrides the number of vertices in the circle
// approximation. Values below 4 are ignored.
func WithVertexCount(n int) Option {
	return func(c *config) {
		if n >= 4 {
			c.vertexCount = n
		}
	}
}

// ComputeBoundingRect returns the axis-aligned envelope of a geodesic circle
// of diameter gsdMeters*pixels centered at center. The footprint is the
// ground length, in meters, of one side of the requested square region.
//
// The circle is approximated by vertexCount points placed at equal bearings;
// the vertex radius is inflated by the chord-sagitta factor 1/cos(pi/n) so
// the inscribed polygon's envelope still contains the exact circle.
func ComputeBoundingRect(center Point, gsdMeters float64, pixels int, opts ...Option) (Rect, error) {
	if gsdMeters <= 0 {
		return Rect{}, fmt.Errorf("region: ground sample distance must be positive, got %v", gsdMeters)
	}
	if pixels <= 0 {
		return Rect{}, fmt.Errorf("region: pixel count must be positive, got %d", pixels)
	}

	cfg := config{vertexCount: DefaultVertexCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	footprint := gsdMeters * float64(pixels)
	radius := footprint / 2 / math.Cos(math.Pi/float64(cfg.vertexCount))

	ring := make(orb.MultiPoint, 0, cfg.vertexCount)
	step := 360.0 / float64(cfg.vertexCount)
	for i := 0; i < cfg.vertexCount; i++ {
		bearing := float64(i) * step
		ring = append(ring, geo.PointAtBearingAndDistance(center.orb(), bearing, radius))
	}

	bound := ring.Bound()
	return Rect{
		MinLon: bound.Min.Lon(),
		MinLat: bound.Min.Lat(),
		MaxLon: bound.Max.Lon(),
		MaxLat: bound.Max.Lat(),
	}, nil
}
