package grid

import (
	"math"
	"testing"

	"github.com/rmera/qfield"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

func testSpec() Spec {
	return Spec{Origin: [3]float64{-2, -2, -2}, Step: [3]float64{0.25, 0.5, 0.2}, N: [3]int{17, 9, 21}}
}

func TestCoords(Te *testing.T) {
	spec := testSpec()
	c, err := NewCoords(spec)
	if err != nil {
		Te.Fatal(err)
	}
	k := 1 / 0.52918
	for a := 0; a < 3; a++ {
		for i, v := range c.Axes[a] {
			exp := spec.Origin[a]*k + float64(i)*spec.Step[a]*k
			if !scalar.EqualWithinAbs(v, exp, 1e-12) {
				Te.Errorf("axis %d point %d: %g, expected %g", a, i, v, exp)
			}
		}
	}
	if _, err := NewCoords(Spec{Step: [3]float64{1, 1, 1}, N: [3]int{2, 0, 2}}); err == nil {
		Te.Error("A grid with 0 points should not be accepted")
	} else if e, ok := err.(qfield.Decorator); !ok || !e.Critical() {
		Te.Errorf("Expected a critical qfield error, got %v", err)
	}
}

func TestBounds(Te *testing.T) {
	spec := Spec{Step: [3]float64{1, 1, 1}, N: [3]int{50, 50, 50}}
	c, err := NewCoordsUnit(spec, 1)
	if err != nil {
		Te.Fatal(err)
	}
	b := c.Bounds([3]float64{25, 0.5, 48}, 3)
	exp := Bounds{Min: [3]int{22, 0, 45}, Max: [3]int{29, 4, 50}}
	if b != exp {
		Te.Errorf("Bounds %v, expected %v", b, exp)
	}
	far := c.Bounds([3]float64{-20, 25, 25}, 3)
	if !far.Empty() {
		Te.Errorf("An atom far from the grid should have empty bounds: %v", far)
	}
	if c.Bounds([3]float64{1, 1, 1}, 0) != c.All() {
		Te.Error("A non-positive radius should give the whole grid")
	}
}

//Every voxel within the radius must be inside the box.
func TestBoundsCoverRadius(Te *testing.T) {
	spec := testSpec()
	c, _ := NewCoords(spec)
	pos := [3]float64{0.3, -1.1, 0.77}
	r := 2.0
	b := c.Bounds(pos, r)
	for ix, x := range c.Axes[0] {
		for iy, y := range c.Axes[1] {
			for iz, z := range c.Axes[2] {
				d := math.Sqrt((x-pos[0])*(x-pos[0]) + (y-pos[1])*(y-pos[1]) + (z-pos[2])*(z-pos[2]))
				if d <= r && !b.Contains(ix, iy, iz) {
					Te.Fatalf("voxel %d %d %d at %g from the atom is not in the box %v", ix, iy, iz, d, b)
				}
			}
		}
	}
}

func TestFrame(Te *testing.T) {
	spec := testSpec()
	c, _ := NewCoords(spec)
	f := NewFrame(c, 3)
	if f.Atom() != -1 {
		Te.Error("A new frame should not be centered")
	}
	p1 := [3]float64{0, 0, 0}
	p2 := [3]float64{1, -1, 0.5}
	f.Center(0, p1)
	f.Center(1, p2)
	if f.Atom() != 1 {
		Te.Errorf("Frame centered on %d, expected 1", f.Atom())
	}
	for i := f.B.Min[0]; i < f.B.Max[0]; i++ {
		if f.X[i] != c.Axes[0][i]-p2[0] || f.X2[i] != f.X[i]*f.X[i] {
			Te.Fatalf("Stale or wrong X at %d: %g", i, f.X[i])
		}
	}
	for i := f.B.Min[2]; i < f.B.Max[2]; i++ {
		if f.Z[i] != c.Axes[2][i]-p2[2] {
			Te.Fatalf("Stale or wrong Z at %d: %g", i, f.Z[i])
		}
	}
	f.Invalidate()
	if f.Atom() != -1 {
		Te.Error("Invalidate didn't work")
	}
}

func TestVolume(Te *testing.T) {
	v := NewVolume([3]int{3, 4, 5})
	v.Set(2, 3, 4, 7)
	v.Add(2, 3, 4, 1)
	if v.At(2, 3, 4) != 8 {
		Te.Errorf("Expected 8, got %g", v.At(2, 3, 4))
	}
	p := v.Plane(2)
	if len(p) != 20 || p[19] != 8 {
		Te.Errorf("Wrong plane view %v", p)
	}
	p[0] = 3
	if v.At(2, 0, 0) != 3 {
		Te.Error("Plane should be a view")
	}
	s := v.Stats(3)
	if s.N != 59 || s.Max != 8 || s.Min != 0 {
		Te.Errorf("Wrong stats %v", s)
	}
	w := v.Copy()
	if !w.Equal(v) {
		Te.Error("Copy should be equal to the original")
	}
	v.Mask(func(ix, iy, iz int) bool { return ix != 2 }, -1)
	if v.At(2, 3, 4) != -1 || v.At(1, 3, 4) != 0 {
		Te.Error("Mask didn't work")
	}
	v.Zero()
	if floats.Sum(v.Data()) != 0 {
		Te.Error("Zero didn't work")
	}
}
