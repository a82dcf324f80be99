/*
 * nci_test.go, part of qfield.
 *
 *
 * Copyright 2024 The qfield authors
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
 */

package nci

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
	"gonum.org/v1/gonum/floats/scalar"
)

//atoms returns hydrogen atoms at the given positions, in Bohr, each in the molecule given by mols.
func atoms(Te *testing.T, mols []int, c ...float64) (*qfield.Topology, *v3.Matrix) {
	ats := make([]*qfield.Atom, len(mols))
	for i, m := range mols {
		ats[i] = &qfield.Atom{Symbol: "H", Name: "H", Molecule: m}
	}
	top, err := qfield.NewTopology(ats)
	if err != nil {
		Te.Fatal(err)
	}
	xyz, err := v3.NewMatrix(c)
	if err != nil {
		Te.Fatal(err)
	}
	return top, xyz.Scaled(qfield.Bohr2A)
}

func bigCutoff() *Options {
	o := DefaultOptions()
	o.Cutoff = 10
	return o
}

func TestHydrogen(Te *testing.T) {
	top, xyz := atoms(Te, []int{0}, 0, 0, 0)
	M, err := NewModel(top, xyz, nil, bigCutoff())
	if err != nil {
		Te.Fatal(err)
	}
	c, _ := Fit(1)
	s := M.Point([3]float64{0, 0, 0})
	if s.Rho != c[0]+c[1]+c[2] {
		Te.Errorf("Density at the nucleus %g, expected %g", s.Rho, c[0]+c[1]+c[2])
	}
	last := s.Rho
	for r := 0.1; r < 8; r += 0.1 {
		rho := M.Point([3]float64{r * 0.6, r * 0.8, 0}).Rho
		if rho >= last {
			Te.Fatalf("Density doesn't decrease at r=%g: %g >= %g", r, rho, last)
		}
		last = rho
	}
	if rho := M.Point([3]float64{11, 0, 0}).Rho; rho != 0 {
		Te.Errorf("Density beyond the capture radius should be 0, got %g", rho)
	}
}

//The analytic derivatives are checked against finite differences of the density.
func TestDerivatives(Te *testing.T) {
	top, xyz := atoms(Te, []int{0, 0, 1}, 0, 0, 0, 1.4, 0.3, -0.2, -0.5, 1.7, 0.9)
	top.Atoms[2].Symbol = "O"
	top.Atoms[2].Z = 8
	M, err := NewModel(top, xyz, nil, bigCutoff())
	if err != nil {
		Te.Fatal(err)
	}
	h := 1e-4
	p := [3]float64{0.6, 0.9, 0.4}
	s := M.Point(p)
	for a := 0; a < 3; a++ {
		pp, pm := p, p
		pp[a] += h
		pm[a] -= h
		sp, sm := M.Point(pp), M.Point(pm)
		g := (sp.Rho - sm.Rho) / (2 * h)
		if !scalar.EqualWithinAbsOrRel(g, s.Grad[a], 1e-6, 1e-5) {
			Te.Errorf("Gradient component %d: %g, numerical %g", a, s.Grad[a], g)
		}
		for b := 0; b < 3; b++ {
			hab := (sp.Grad[b] - sm.Grad[b]) / (2 * h)
			if !scalar.EqualWithinAbsOrRel(hab, s.Hess[a][b], 1e-6, 1e-5) {
				Te.Errorf("Hessian element %d %d: %g, numerical %g", a, b, s.Hess[a][b], hab)
			}
		}
	}
}

//Two atoms at +-a on the x axis. At the midpoint, lambda2 is negative (bond critical point);
//at (0,a,0) the two atoms pull in perpendicular directions and lambda2 is positive.
func TestSignFlip(Te *testing.T) {
	a := 1.5
	top, xyz := atoms(Te, []int{0, 1}, -a, 0, 0, a, 0, 0)
	M, err := NewModel(top, xyz, nil, bigCutoff())
	if err != nil {
		Te.Fatal(err)
	}
	if l := M.Point([3]float64{0, 0, 0}).Lambda2; l >= 0 {
		Te.Errorf("lambda2 at the midpoint should be negative, got %g", l)
	}
	if l := M.Point([3]float64{0, a, 0}).Lambda2; l <= 0 {
		Te.Errorf("lambda2 at (0,a,0) should be positive, got %g", l)
	}
	flips := 0
	var prev Sample
	for i := 0; i <= 40; i++ {
		s := M.Point([3]float64{0, float64(i) * a / 40, 0})
		if s.S == NoValue {
			Te.Fatalf("Unexpected NoValue at step %d", i)
		}
		if math.Signbit(s.S) != math.Signbit(s.Lambda2) && s.Lambda2 != 0 {
			Te.Errorf("s %g and lambda2 %g have different signs", s.S, s.Lambda2)
		}
		if i > 0 && math.Signbit(s.S) != math.Signbit(prev.S) {
			flips++
			if (s.Lambda2 < 0) == (prev.Lambda2 < 0) {
				Te.Errorf("s changes sign between steps %d and %d, but lambda2 doesn't", i-1, i)
			}
		}
		prev = s
	}
	if flips != 1 {
		Te.Errorf("Expected exactly one sign change, got %d", flips)
	}
}

func TestIntraInter(Te *testing.T) {
	top, xyz := atoms(Te, []int{0, 1}, -3, 0, 0, 3, 0, 0)
	o := bigCutoff()
	o.Type = Inter
	M, err := NewModel(top, xyz, nil, o)
	if err != nil {
		Te.Fatal(err)
	}
	near := M.Point([3]float64{-2.5, 0, 0})
	mid := M.Point([3]float64{0, 0.5, 0})
	if !near.Intra || mid.Intra {
		Te.Errorf("Wrong classification, near atom: %v, midpoint: %v", near.Intra, mid.Intra)
	}
	if near.S != NoValue || mid.S == NoValue {
		Te.Errorf("Intermolecular selection failed: %g %g", near.S, mid.S)
	}
	o.Type = Intra
	if M.Point([3]float64{-2.5, 0, 0}).S == NoValue || M.Point([3]float64{0, 0.5, 0}).S != NoValue {
		Te.Error("Intramolecular selection failed")
	}
}

func TestPromolecularGrid(Te *testing.T) {
	top, xyz := atoms(Te, []int{0, 1}, -1, 0, 0, 1.2, 0.1, 0)
	s := 0.4 * qfield.Bohr2A
	spec := grid.Spec{Origin: [3]float64{-2 * qfield.Bohr2A, -2 * qfield.Bohr2A, -2 * qfield.Bohr2A}, Step: [3]float64{s, s, s}, N: [3]int{11, 11, 11}}
	o := DefaultOptions()
	o.Color = grid.NewVolumeFor(spec)
	vol := grid.NewVolumeFor(spec)
	if err := Promolecular(context.Background(), top, xyz, nil, spec, vol, o); err != nil {
		Te.Fatal(err)
	}
	M, _ := NewModel(top, xyz, nil, o)
	c, _ := grid.NewCoords(spec)
	values := 0
	for ix := 0; ix < 11; ix++ {
		for iy := 0; iy < 11; iy++ {
			for iz := 0; iz < 11; iz++ {
				p := M.Point([3]float64{c.Axes[0][ix], c.Axes[1][iy], c.Axes[2][iz]})
				if p.Rho > o.Cutoff {
					if vol.At(ix, iy, iz) != NoValue {
						Te.Fatalf("Voxel %d %d %d with density %g above the cutoff has a value", ix, iy, iz, p.Rho)
					}
					continue
				}
				values++
				if !scalar.EqualWithinAbs(vol.At(ix, iy, iz), p.S, 1e-12) {
					Te.Fatalf("Voxel %d %d %d: %g, expected %g", ix, iy, iz, vol.At(ix, iy, iz), p.S)
				}
				if !scalar.EqualWithinAbs(o.Color.At(ix, iy, iz), p.Color(), 1e-12) {
					Te.Fatalf("Color at %d %d %d: %g, expected %g", ix, iy, iz, o.Color.At(ix, iy, iz), p.Color())
				}
			}
		}
	}
	if values == 0 {
		Te.Error("No voxel below the cutoff")
	}
	fmt.Println(vol.Stats(NoValue))
}

func TestOptions(Te *testing.T) {
	o := &Options{Cutoff: -1, Type: 7, IntraFraction: 2}
	o.Check()
	d := DefaultOptions()
	if o.Cutoff != d.Cutoff || o.Type != All || o.IntraFraction != d.IntraFraction || o.DataScaling != 1 || o.Range != d.Range {
		Te.Errorf("Check didn't restore the defaults: %+v", o)
	}
	if t, err := ParseType("Inter"); err != nil || t != Inter {
		Te.Error("Failed to parse Inter")
	}
}

//A quadratic field is differentiated exactly by the central differences.
func TestDifferences(Te *testing.T) {
	a, b, c, d, e, f, g := 0.01, 0.002, 0.003, 0.001, 0.0005, -0.0007, 0.0004
	rho := func(x, y, z float64) float64 {
		return a + b*x*x + c*y*y + d*z*z + e*x*y + f*x*z + g*y*z
	}
	h := [3]float64{0.2, 0.15, 0.1}
	x0, y0, z0 := 0.3, -0.4, 0.5
	planes := make([][]float64, 3)
	for p := range planes {
		planes[p] = make([]float64, 9)
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				planes[p][j*3+k] = rho(x0+float64(p-1)*h[0], y0+float64(j-1)*h[1], z0+float64(k-1)*h[2])
			}
		}
	}
	s := differences(planes[0], planes[1], planes[2], 4, 3, h)
	grad := [3]float64{2*b*x0 + e*y0 + f*z0, 2*c*y0 + e*x0 + g*z0, 2*d*z0 + f*x0 + g*y0}
	hess := [3][3]float64{{2 * b, e, f}, {e, 2 * c, g}, {f, g, 2 * d}}
	if s.Rho != rho(x0, y0, z0) {
		Te.Errorf("Density %g, expected %g", s.Rho, rho(x0, y0, z0))
	}
	for i := 0; i < 3; i++ {
		if !scalar.EqualWithinAbs(s.Grad[i], grad[i], 1e-10) {
			Te.Errorf("Gradient %d: %g, expected %g", i, s.Grad[i], grad[i])
		}
		for j := 0; j < 3; j++ {
			if !scalar.EqualWithinAbs(s.Hess[i][j], hess[i][j], 1e-9) {
				Te.Errorf("Hessian %d %d: %g, expected %g", i, j, s.Hess[i][j], hess[i][j])
			}
		}
	}
}

//volumeSource provides the planes of a volume, multiplied by a factor.
type volumeSource struct {
	v      *grid.Volume
	i      int
	factor float64
}

func (s *volumeSource) NextPlane(dst []float64) error {
	if s.i >= s.v.N()[0] {
		return io.EOF
	}
	for j, v := range s.v.Plane(s.i) {
		dst[j] = v * s.factor
	}
	s.i++
	return nil
}

func TestScanner(Te *testing.T) {
	top, xyz := atoms(Te, []int{0, 1}, -1.5, 0, 0, 1.5, 0, 0)
	st := 0.1 * qfield.Bohr2A
	n := 21
	o := -1.0 * qfield.Bohr2A
	spec := grid.Spec{Origin: [3]float64{o, o, o}, Step: [3]float64{st, st, st}, N: [3]int{n, n, n}}
	M, err := NewModel(top, xyz, nil)
	if err != nil {
		Te.Fatal(err)
	}
	c, _ := grid.NewCoords(spec)
	dens := grid.NewVolumeFor(spec)
	for ix, x := range c.Axes[0] {
		for iy, y := range c.Axes[1] {
			for iz, z := range c.Axes[2] {
				dens.Set(ix, iy, iz, M.Point([3]float64{x, y, z}).Rho)
			}
		}
	}
	//NCIPLOT-like densities, negative and scaled.
	opts := DefaultOptions()
	opts.DataScaling = NCIPLOTScaling
	opts.Color = grid.NewVolumeFor(spec)
	S, err := NewScanner(&volumeSource{v: dens, factor: -1 / NCIPLOTScaling}, spec, nil, opts)
	if err != nil {
		Te.Fatal(err)
	}
	vol := grid.NewVolumeFor(spec)
	if err := S.Run(context.Background(), vol); err != nil {
		Te.Fatal(err)
	}
	for iy := 0; iy < n; iy++ {
		for iz := 0; iz < n; iz++ {
			if vol.At(0, iy, iz) != NoValue || vol.At(n-1, iy, iz) != NoValue {
				Te.Fatal("Edge planes should have no value")
			}
		}
	}
	if vol.At(5, 0, 5) != NoValue || vol.At(5, 5, n-1) != NoValue {
		Te.Error("Edge voxels should have no value")
	}
	//a point near the bond axis, (0.3,0.2,0)
	fd := vol.At(13, 12, 10)
	an := M.Point([3]float64{c.Axes[0][13], c.Axes[1][12], c.Axes[2][10]})
	if !scalar.EqualWithinRel(fd, an.S, 0.05) {
		Te.Errorf("Finite differences give %g, analytic %g", fd, an.S)
	}
	if !scalar.EqualWithinRel(opts.Color.At(13, 12, 10), an.Color(), 1e-6) {
		Te.Errorf("Color %g, expected %g", opts.Color.At(13, 12, 10), an.Color())
	}
}

func TestEdgeValue(Te *testing.T) {
	spec := grid.Spec{Step: [3]float64{0.1, 0.1, 0.1}, N: [3]int{4, 3, 3}}
	dens := grid.NewVolumeFor(spec)
	for i := range dens.Data() {
		dens.Data()[i] = 0.01 + 0.0001*float64(i%7)
	}
	S, err := NewScanner(&volumeSource{v: dens, factor: 1}, spec, nil)
	if err != nil {
		Te.Fatal(err)
	}
	var c1, c2 []float64
	for k := 0; k < 3; k++ {
		_, _, c, err := S.Next()
		if err != nil {
			Te.Fatal(err)
		}
		c1 = c2
		c2 = append([]float64(nil), c...)
	}
	l := len(c2)
	//the center voxel of planes 1 and 2
	exp := Lerp(c1[4], c2[4], 0.25)
	if got := S.EdgeValue(4, l+4, 0.25); got != exp {
		Te.Errorf("EdgeValue %g, expected %g", got, exp)
	}
	if c2[4] == 0 {
		Te.Error("The center of plane 2 should have a value")
	}
	if _, _, _, err := S.Next(); err != nil {
		Te.Fatal(err)
	}
	if _, _, _, err := S.Next(); err != io.EOF {
		Te.Errorf("Expected io.EOF after the last plane, got %v", err)
	}
}
