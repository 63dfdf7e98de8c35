package region

import (
	"math"
	"testing"
)

func TestComputeBoundingRectValidation(t *testing.T) {
	center := NewPoint(-122.169678, 37.429154)

	if _, err := ComputeBoundingRect(center, 0, 224); err == nil {
		t.Fatalf("expected error for zero ground sample distance")
	}
	if _, err := ComputeBoundingRect(center, -30, 224); err == nil {
		t.Fatalf("expected error for negative ground sample distance")
	}
	if _, err := ComputeBoundingRect(center, 30, 0); err == nil {
		t.Fatalf("expected error for zero pixel count")
	}
	if _, err := ComputeBoundingRect(center, 30, -5); err == nil {
		t.Fatalf("expected error for negative pixel count")
	}
}

func TestComputeBoundingRectContainsCenter(t *testing.T) {
	center := NewPoint(-122.169678, 37.429154)
	rect, err := ComputeBoundingRect(center, 30, 224)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rect.Contains(center) {
		t.Fatalf("rectangle %+v does not contain center %+v", rect, center)
	}
	if rect.MinLon >= rect.MaxLon {
		t.Fatalf("expected min longitude < max longitude, got %v >= %v", rect.MinLon, rect.MaxLon)
	}
	if rect.MinLat >= rect.MaxLat {
		t.Fatalf("expected min latitude < max latitude, got %v >= %v", rect.MinLat, rect.MaxLat)
	}
}

func TestComputeBoundingRectFootprintSpan(t *testing.T) {
	center := NewPoint(-122.169678, 37.429154)
	rect, err := ComputeBoundingRect(center, 30, 224)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const footprint = 30 * 224 // 6720 meters
	const tolerance = 0.02

	width := rect.WidthMeters()
	if width < footprint {
		t.Fatalf("width %v smaller than requested footprint %v", width, footprint)
	}
	if width > footprint*(1+tolerance) {
		t.Fatalf("width %v exceeds footprint %v by more than %v%%", width, footprint, tolerance*100)
	}

	height := rect.HeightMeters()
	if height < footprint {
		t.Fatalf("height %v smaller than requested footprint %v", height, footprint)
	}
	if height > footprint*(1+tolerance) {
		t.Fatalf("height %v exceeds footprint %v by more than %v%%", height, footprint, tolerance*100)
	}
}

func TestComputeBoundingRectDeterministic(t *testing.T) {
	center := NewPoint(151.2093, -33.8688)

	first, err := ComputeBoundingRect(center, 10, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ComputeBoundingRect(center, 10, 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("identical inputs produced different rectangles: %+v vs %+v", first, second)
	}
}

func TestComputeBoundingRectVertexCount(t *testing.T) {
	center := NewPoint(2.3522, 48.8566)

	coarse, err := ComputeBoundingRect(center, 30, 100, WithVertexCount(8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fine, err := ComputeBoundingRect(center, 30, 100, WithVertexCount(256))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both must contain the footprint; the coarse approximation carries more
	// padding so its envelope is at least as large.
	if coarse.WidthMeters() < fine.WidthMeters()-1 {
		t.Fatalf("coarse width %v unexpectedly smaller than fine width %v", coarse.WidthMeters(), fine.WidthMeters())
	}
	if fine.WidthMeters() < 3000 {
		t.Fatalf("fine width %v smaller than requested footprint", fine.WidthMeters())
	}
}

func TestRectMidlineSpansSymmetric(t *testing.T) {
	center := NewPoint(0, 0)
	rect, err := ComputeBoundingRect(center, 15, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// At the equator the rectangle is symmetric about the center.
	if d := math.Abs((rect.MaxLon - center.Lon) - (center.Lon - rect.MinLon)); d > 1e-9 {
		t.Fatalf("longitude spans asymmetric by %v", d)
	}
	if d := math.Abs((rect.MaxLat - center.Lat) - (center.Lat - rect.MinLat)); d > 1e-6 {
		t.Fatalf("latitude spans asymmetric by %v", d)
	}
}
