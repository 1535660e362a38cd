package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(600, 600, 600, 600)

	if cam.X != 300 || cam.Y != 300 {
		t.Errorf("expected camera at (300, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, 1200, 1200)

	sx, sy := cam.WorldToScreen(600, 600)
	if math.Abs(float64(sx-400)) > 0.01 || math.Abs(float64(sy-300)) > 0.01 {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 1200, 1200)
	cam.SetZoom(1.7)

	testCases := []struct{ sx, sy float32 }{
		{400, 300}, // center
		{10, 10},   // top-left
		{790, 590}, // bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	// 20x20 grid of 30px cells exactly filling a 600x600 viewport
	cam := New(600, 600, 600, 600)

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside", 95, 31, 3, 1, true},
		{"last cell", 599, 599, 19, 19, true},
		{"left of grid", -1, 10, 0, 0, false},
		{"below grid", 10, 600, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.CellAt(tt.sx, tt.sy, 30, 20)
			if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
				t.Errorf("CellAt(%v, %v) = (%d, %d, %v), want (%d, %d, %v)",
					tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}
}

func TestPanClampsToWorld(t *testing.T) {
	cam := New(600, 600, 600, 600)

	cam.Pan(-1000, 0)
	if cam.X != 0 {
		t.Errorf("expected X clamped to 0, got %f", cam.X)
	}
	cam.Pan(0, 5000)
	if cam.Y != 600 {
		t.Errorf("expected Y clamped to 600, got %f", cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(600, 300, 1200, 1200)

	// MinZoom fits the whole world: min(600/1200, 300/1200) = 0.25
	if cam.MinZoom != 0.25 {
		t.Errorf("expected MinZoom 0.25, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.25 {
		t.Errorf("expected zoom clamped to 0.25, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestMinZoomCappedAtOne(t *testing.T) {
	// A world smaller than the viewport never needs zooming out.
	cam := New(800, 800, 300, 300)
	if cam.MinZoom != 1 {
		t.Errorf("expected MinZoom 1, got %f", cam.MinZoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(600, 600, 1200, 1200)

	// Visible range in world coords: (300, 300) to (900, 900)
	if !cam.IsVisible(600, 600, 15) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(1100, 1100, 15) {
		t.Error("far cell should not be visible")
	}
	if !cam.IsVisible(290, 600, 15) {
		t.Error("cell straddling the edge should be visible")
	}
}

func TestResizeRaisesZoom(t *testing.T) {
	cam := New(300, 300, 1200, 1200)
	cam.SetZoom(cam.MinZoom)

	cam.Resize(600, 600)
	if cam.MinZoom != 0.5 || cam.Zoom != 0.5 {
		t.Errorf("after resize MinZoom=%f Zoom=%f, want 0.5", cam.MinZoom, cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(600, 600, 600, 600)
	cam.X = 50
	cam.Y = 70
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 300 || cam.Y != 300 {
		t.Errorf("expected position (300, 300), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
