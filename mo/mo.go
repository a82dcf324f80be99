/*
 * mo.go, part of qfield.
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

//Package mo evaluates molecular orbitals, their squares, and electron densities on
//a grid, from a Gaussian or Slater basis and the MO coefficients.
//
//Each shell is evaluated only within the bounding box of its atom, and the Gaussian
//exponentials are computed separately along each axis.
package mo

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
	"golang.org/x/sync/errgroup"
)

//Calculation holds everything needed to evaluate orbitals of one molecule on one grid.
//It can be used concurrently.
type Calculation struct {
	coords *grid.Coords
	pos    [][3]float64 //atom positions in Bohr
	basis  *basis.Basis
	sel    []bool
	o      *Options
	off    map[basis.ShellKind]bool //kinds disabled by the options

	mu   sync.Mutex
	gaps map[basis.ShellKind]bool
}

//NewCalculation prepares a calculation for the atoms with coordinates coords (in A), the basis b
//and the grid spec. Only the atoms in selection get their contributions evaluated (a nil selection
//means all the atoms). Options are optional, the defaults are used if not given.
func NewCalculation(coords *v3.Matrix, b *basis.Basis, spec grid.Spec, selection []int, options ...*Options) (*Calculation, error) {
	if coords == nil || b == nil {
		return nil, qfield.NewError("Nil coordinates or basis", true, "mo.NewCalculation")
	}
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
		o.Check()
	}
	n := coords.NVecs()
	if err := b.Check(n); err != nil {
		return nil, qfield.ErrDecorate(err, "mo.NewCalculation")
	}
	gc, err := grid.NewCoords(spec)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "mo.NewCalculation")
	}
	C := &Calculation{
		coords: gc,
		pos:    make([][3]float64, n),
		basis:  b,
		sel:    qfield.Selected(n, selection),
		o:      o,
		off:    make(map[basis.ShellKind]bool),
		gaps:   make(map[basis.ShellKind]bool),
	}
	for i := range C.pos {
		C.pos[i] = qfield.A2BohrVec(coords.Vec3(i))
	}
	for _, k := range o.Disable {
		C.off[k] = true
	}
	return C, nil
}

//N returns the dimensions of the grid of the calculation.
func (C *Calculation) N() [3]int {
	return C.coords.N
}

//Disabled returns the shell kinds that have been skipped so far, either because they were
//disabled in the options or because they can't be evaluated. Those shells contribute nothing
//to the results.
func (C *Calculation) Disabled() []basis.ShellKind {
	C.mu.Lock()
	defer C.mu.Unlock()
	r := make([]basis.ShellKind, 0, len(C.gaps))
	for k := range C.gaps {
		r = append(r, k)
	}
	slices.Sort(r)
	return r
}

//gap records that the kind k has been skipped, and logs it the first time.
func (C *Calculation) gap(k basis.ShellKind) {
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.gaps[k] {
		return
	}
	C.gaps[k] = true
	if C.off[k] {
		log.Printf("qfield/mo: %s shells are disabled, they will not contribute to the results", k)
		return
	}
	log.Printf("qfield/mo: %s shells are not supported, they will not contribute to the results", k)
}

func (C *Calculation) checkShape(coeffs []float64, vol *grid.Volume) error {
	if s := C.basis.Size(); len(coeffs) != s {
		return qfield.NewError(fmt.Sprintf("%d MO coefficients given for a basis of size %d", len(coeffs), s), true, "checkShape")
	}
	if vol != nil && vol.N() != C.coords.N {
		return qfield.NewError(fmt.Sprintf("Volume of dimensions %v given for a %v grid", vol.N(), C.coords.N), true, "checkShape")
	}
	return nil
}

//Orbital puts in vol the values of the orbital with coefficients coeffs.
//Any previous content of vol is lost. Nothing is written if coeffs or vol have the
//wrong size.
func (C *Calculation) Orbital(ctx context.Context, coeffs []float64, vol *grid.Volume) error {
	if err := C.checkShape(coeffs, vol); err != nil {
		return qfield.ErrDecorate(err, "Orbital")
	}
	vol.Zero()
	f := grid.NewFrame(C.coords, C.o.Range)
	cur := basis.NewCursor(coeffs)
	var err error
	if C.basis.IsSlater() {
		err = C.slaters(ctx, f, cur, vol)
	} else {
		err = C.gaussians(ctx, newGScratch(f), cur, vol)
	}
	if err != nil {
		return qfield.ErrDecorate(err, "Orbital")
	}
	return qfield.ErrDecorate(cur.Done(), "Orbital")
}

func (C *Calculation) gaussians(ctx context.Context, s *gscratch, cur *basis.Cursor, vol *grid.Volume) error {
	for _, sh := range C.basis.Shells {
		if err := ctx.Err(); err != nil {
			return err
		}
		n := sh.Kind.Components()
		if !C.sel[sh.Atom] {
			cur.Advance(n)
			continue
		}
		if C.off[sh.Kind] || !Supported(sh.Kind) {
			C.gap(sh.Kind)
			cur.Advance(n)
			continue
		}
		c := cur.TakeShell(sh.Kind, C.basis.Order(sh.Kind), s.c)
		s.f.Center(sh.Atom, C.pos[sh.Atom])
		gaussianShell(s, sh, C.basis.ShellPrimitives(sh), c, vol)
	}
	return nil
}

//OrbitalSquared puts in vol the square of the orbital with coefficients coeffs.
func (C *Calculation) OrbitalSquared(ctx context.Context, coeffs []float64, vol *grid.Volume) error {
	if err := C.Orbital(ctx, coeffs, vol); err != nil {
		return qfield.ErrDecorate(err, "OrbitalSquared")
	}
	d := vol.Data()
	for i, v := range d {
		d[i] = v * v
	}
	return nil
}

//Density puts in vol the electron density sum_i occupations[i]*|psi_i|^2 for the orbitals with
//coefficients mos. Orbitals with zero occupation are not evaluated.
func (C *Calculation) Density(ctx context.Context, mos [][]float64, occupations []float64, vol *grid.Volume) error {
	if len(mos) != len(occupations) {
		return qfield.NewError(fmt.Sprintf("%d orbitals but %d occupations", len(mos), len(occupations)), true, "Density")
	}
	for i, c := range mos {
		if err := C.checkShape(c, vol); err != nil {
			return qfield.ErrDecorate(err, fmt.Sprintf("Density (orbital %d)", i))
		}
	}
	vol.Zero()
	tmp := grid.NewVolume(C.coords.N)
	d := vol.Data()
	for i, c := range mos {
		occ := occupations[i]
		if occ == 0 {
			continue
		}
		if err := C.Orbital(ctx, c, tmp); err != nil {
			return qfield.ErrDecorate(err, "Density")
		}
		for j, v := range tmp.Data() {
			d[j] += occ * v * v
		}
	}
	return nil
}

//Orbitals evaluates each of the orbitals with coefficients in mos on its own volume. Up to
//Options.CPUs orbitals are computed concurrently. The first error stops the calculation.
func (C *Calculation) Orbitals(ctx context.Context, mos [][]float64) ([]*grid.Volume, error) {
	for i, c := range mos {
		if err := C.checkShape(c, nil); err != nil {
			return nil, qfield.ErrDecorate(err, fmt.Sprintf("Orbitals (orbital %d)", i))
		}
	}
	ret := make([]*grid.Volume, len(mos))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(C.o.CPUs)
	for i, c := range mos {
		i, c := i, c // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			v := grid.NewVolume(C.coords.N)
			if err := C.Orbital(ctx, c, v); err != nil {
				return err
			}
			ret[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, qfield.ErrDecorate(err, "Orbitals")
	}
	return ret, nil
}
