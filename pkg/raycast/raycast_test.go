package raycast

import (
	"errors"
	"math"
	"slices"
	"testing"

	"canvas-grid/pkg/camera"
	"canvas-grid/pkg/grid"

	"github.com/zyedidia/generic/mapset"
)

func TestAxisAlignedHit(t *testing.T) {
	for k := 1; k < 8; k++ {
		g := grid.New[uint8](8)
		g.Set(0, float64(k), 1)
		res, err := Cast(camera.Camera{R: 0, X: 0, Y: 0, Z: 1}, g, grid.Mask[uint8](1), nil)
		if err != nil {
			t.Fatalf("cast: %v", err)
		}
		if res.RayCount() != 1 {
			t.Fatalf("ray count=%d want 1", res.RayCount())
		}
		hit := res.Hit(0)
		if !hit.Collision || hit.Cell != k {
			t.Fatalf("k=%d: hit cell %d collision=%v", k, hit.Cell, hit.Collision)
		}
		if math.Abs(hit.Distance-float64(k)) > 1e-9 {
			t.Fatalf("k=%d: distance=%f", k, hit.Distance)
		}
		if hit.Side != SideNorth {
			t.Fatalf("k=%d: side=%d want north", k, hit.Side)
		}
		if math.Abs(hit.Range-hit.Distance) > 1e-9 {
			t.Fatalf("k=%d: centre ray range %f != distance %f", k, hit.Range, hit.Distance)
		}
	}
}

func TestHitSideAndFraction(t *testing.T) {
	g := grid.New[uint8](6)
	g.Set(3, 0, 1)
	res, err := Cast(camera.Camera{R: math.Pi / 2, X: 0.5, Y: 0.25, Z: 1}, g, grid.Mask[uint8](1), nil)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	hit := res.Hit(0)
	if hit.Cell != 3*6 {
		t.Fatalf("hit cell=%d want 18", hit.Cell)
	}
	if hit.Side != SideWest {
		t.Fatalf("side=%d want west", hit.Side)
	}
	if math.Abs(hit.Distance-2.5) > 1e-9 || math.Abs(hit.Fraction-0.25) > 1e-9 {
		t.Fatalf("distance=%f fraction=%f", hit.Distance, hit.Fraction)
	}

	g = grid.New[uint8](6)
	g.Set(0, 0, 1)
	res, _ = Cast(camera.Camera{R: math.Pi, X: 0.75, Y: 4.5, Z: 1}, g, grid.Mask[uint8](1), nil)
	hit = res.Hit(0)
	if hit.Cell != 0 || hit.Side != SideSouth {
		t.Fatalf("cell=%d side=%d want 0/south", hit.Cell, hit.Side)
	}
	if math.Abs(hit.Distance-3.5) > 1e-9 {
		t.Fatalf("distance=%f want 3.5", hit.Distance)
	}
}

func TestCornerCrossingStepsYFirst(t *testing.T) {
	g := grid.New[uint8](4)
	g.Set(1, 1, 1)
	cells := mapset.New[int]()
	vis := &tracker{cells: &cells}
	cam := camera.Camera{R: math.Pi / 4, X: 0.5, Y: 0.5, Z: 1}

	// Equal components put the ray exactly through the corner at (1, 1).
	d := math.Sqrt2 / 2
	hit := walk(cam, cam.R, d, d, g, grid.Mask[uint8](1), g.SideLength(), vis)
	if !hit.Collision || hit.Cell != 5 {
		t.Fatalf("hit cell=%d collision=%v want 5", hit.Cell, hit.Collision)
	}
	if !cells.Has(1) || cells.Has(4) {
		t.Fatal("tie should step y into cell 1 before x, never entering cell 4")
	}
	// Both hit coordinates sit on a boundary, so the last stepped axis (x) names the face.
	if hit.Side != SideWest {
		t.Fatalf("side=%d want west", hit.Side)
	}
	if math.Abs(hit.Distance-0.5/d) > 1e-9 {
		t.Fatalf("distance=%f want %f", hit.Distance, 0.5/d)
	}
	if math.Abs(hit.X-1) > 1e-9 || math.Abs(hit.Y-1) > 1e-9 {
		t.Fatalf("hit point (%f, %f) want the corner", hit.X, hit.Y)
	}
}

func TestFaceFallsBackToSteppedAxis(t *testing.T) {
	cases := []struct {
		x, y         float64
		crossedX     bool
		stepX, stepY int
		want         Side
	}{
		{2, 3, false, 1, 1, SideNorth},
		{2, 3, false, 1, -1, SideSouth},
		{2, 3, true, 1, 1, SideWest},
		{2, 3, true, -1, 1, SideEast},
		{2.5, 3.5, true, -1, 1, SideEast},
		{2, 3.5, false, 1, 1, SideWest},
		{2.5, 3, true, 1, -1, SideSouth},
	}
	for _, c := range cases {
		if got, _ := face(c.x, c.y, c.crossedX, c.stepX, c.stepY); got != c.want {
			t.Fatalf("face(%v, %v, %v, %d, %d)=%d want %d", c.x, c.y, c.crossedX, c.stepX, c.stepY, got, c.want)
		}
	}
}

func TestMissLeavesGrid(t *testing.T) {
	g := grid.New[uint8](4)
	res, err := Cast(camera.Camera{R: 0, X: 1.5, Y: 1.5, Z: 1}, g, grid.Mask[uint8](1), nil)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	hit := res.Hit(0)
	if hit.Collision || hit.Cell != -1 || hit.Side != SideNone {
		t.Fatalf("expected miss, got %+v", hit)
	}
	if math.Abs(hit.Distance-2.5) > 1e-9 {
		t.Fatalf("miss distance=%f want 2.5", hit.Distance)
	}

	res, _ = Cast(camera.Camera{R: 0, X: -3, Y: 1, Z: 1}, g, grid.Mask[uint8](1), nil)
	if res.Hit(0).Collision {
		t.Fatal("camera outside the grid should not collide")
	}
}

func TestStepLimit(t *testing.T) {
	g := grid.New[uint8](10)
	g.Set(0, 8, 1)
	res, _ := Cast(camera.Camera{X: 0.5, Y: 0.5, Z: 1}, g, grid.Mask[uint8](1), &Options{Rays: true, StepLimit: 3})
	if res.Hit(0).Collision {
		t.Fatal("limited ray should stop before the wall")
	}
	res, _ = Cast(camera.Camera{X: 0.5, Y: 0.5, Z: 1}, g, grid.Mask[uint8](1), &Options{Rays: true})
	if !res.Hit(0).Collision {
		t.Fatal("default limit should reach the wall")
	}
}

func TestFanAnglesAndFisheye(t *testing.T) {
	const side = 21
	g := grid.New[uint8](side)
	for x := 0; x < side; x++ {
		g.Set(float64(x), 10, 1)
	}
	cam := camera.Camera{R: 0, X: 10.5, Y: 0.5, Z: 1}
	opts := &Options{Rays: true, RayCount: 5, RayFOV: math.Pi / 2}
	res, err := Cast(cam, g, grid.Mask[uint8](1), opts)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if res.RayCount() != 5 {
		t.Fatalf("ray count=%d want 5", res.RayCount())
	}
	for i := 0; i < 5; i++ {
		hit := res.Hit(i)
		wantAngle := math.Pi/4 - float64(i)*math.Pi/8
		if math.Abs(hit.Angle-wantAngle) > 1e-9 {
			t.Fatalf("ray %d angle=%f want %f", i, hit.Angle, wantAngle)
		}
		if !hit.Collision {
			t.Fatalf("ray %d missed the wall", i)
		}
		// A flat wall perpendicular to the heading has a constant corrected range.
		if math.Abs(hit.Range-9.5) > 1e-9 {
			t.Fatalf("ray %d range=%f want 9.5", i, hit.Range)
		}
		if hit.Distance < hit.Range-1e-9 {
			t.Fatalf("ray %d distance %f shorter than range %f", i, hit.Distance, hit.Range)
		}
	}
	if res.Hit(0).X <= cam.X || res.Hit(4).X >= cam.X {
		t.Fatal("ray 0 should sweep towards +x and the last ray towards -x")
	}
}

func TestCellsAndDistanceMap(t *testing.T) {
	g := grid.New[uint8](5)
	g.Set(0, 3, 1)
	res, err := Cast(camera.Camera{X: 0.5, Y: 0.5, Z: 1}, g, grid.Mask[uint8](1), &Options{Cells: true, DistanceMap: true})
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	if res.Rays != nil {
		t.Fatal("rays were not requested")
	}
	if res.Cells.Size() != 4 {
		t.Fatalf("visited %d cells want 4", res.Cells.Size())
	}
	for _, i := range []int{0, 1, 2, 3} {
		if !res.Cells.Has(i) {
			t.Fatalf("cell %d missing from visibility set", i)
		}
	}
	wantKeys := []float64{2.5, 1.5, 0.5, 0}
	if !slices.Equal(res.DistanceMapKeysSorted, wantKeys) {
		t.Fatalf("sorted keys %v want %v", res.DistanceMapKeysSorted, wantKeys)
	}
	if cells := res.DistanceMap[2.5]; len(cells) != 1 || cells[0] != 3 {
		t.Fatalf("farthest cells %v want [3]", cells)
	}
}

func TestDistanceMapKeepsFarthestSighting(t *testing.T) {
	g := grid.New[uint8](9)
	cam := camera.Camera{R: 0, X: 4.5, Y: 0.5, Z: 1}
	res, _ := Cast(cam, g, grid.Mask[uint8](1), &Options{Cells: true, DistanceMap: true, RayCount: 9, RayFOV: math.Pi / 3})
	for i := 1; i < len(res.DistanceMapKeysSorted); i++ {
		if res.DistanceMapKeysSorted[i] >= res.DistanceMapKeysSorted[i-1] {
			t.Fatalf("keys not strictly descending: %v", res.DistanceMapKeysSorted)
		}
	}
	total := 0
	for _, cells := range res.DistanceMap {
		total += len(cells)
	}
	if total != res.Cells.Size() {
		t.Fatalf("distance map holds %d cells, set holds %d", total, res.Cells.Size())
	}
}

func TestNothingRequested(t *testing.T) {
	g := grid.New[uint8](3)
	res, err := Cast(camera.Camera{X: 1, Y: 1, Z: 1}, g, grid.Mask[uint8](1), &Options{DistanceMap: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Rays != nil || res.DistanceMap != nil || res.Cells.Size() != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestRaysReuse(t *testing.T) {
	g := grid.New[uint8](4)
	g.Set(0, 2, 1)
	cam := camera.Camera{X: 0.5, Y: 0.5, Z: 1}

	buf := make([]float64, HitLen)
	res, err := Cast(cam, g, grid.Mask[uint8](1), &Options{Rays: true, RaysReuse: buf})
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if &res.Rays[0] != &buf[0] {
		t.Fatal("matching reuse buffer should be written in place")
	}

	res, err = Cast(cam, g, grid.Mask[uint8](1), &Options{Rays: true, RayCount: 2, RayFOV: 0.1, RaysReuse: buf})
	if !errors.Is(err, ErrReuseLength) {
		t.Fatalf("expected ErrReuseLength, got %v", err)
	}
	if len(res.Rays) != 2*HitLen || !res.Hit(0).Collision {
		t.Fatalf("fallback result incomplete: %v", res.Rays)
	}
}
