/*
 * slater.go, part of qfield.
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

package mo

import (
	"context"
	"math"

	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/grid"
)

//ipow returns x^n for n>=0, with 0^0=1.
func ipow(x float64, n int) float64 {
	r := 1.0
	for ; n > 0; n-- {
		r *= x
	}
	return r
}

//SlaterAngular returns the angular factor of the term t at the relative position x,y,z.
//A==-2 gives (2z^2-x^2-y^2)*y^B*z^C, B==-2 gives (x^2-y^2)*x^A*z^C, and any other
//combination x^A*y^B*z^C.
func SlaterAngular(t basis.SlaterTerm, x, y, z float64) float64 {
	switch {
	case t.A == -2:
		return (2*z*z - x*x - y*y) * ipow(y, t.B) * ipow(z, t.C)
	case t.B == -2:
		return (x*x - y*y) * ipow(x, t.A) * ipow(z, t.C)
	}
	return ipow(x, t.A) * ipow(y, t.B) * ipow(z, t.C)
}

//slaterTerm adds coef*exp(-zeta*r)*r^D*angular to the voxels in the bounding box of the
//frame f, which must be centered on the term's atom.
func slaterTerm(f *grid.Frame, t basis.SlaterTerm, coef float64, vol *grid.Volume) {
	b := f.B
	if b.Empty() {
		return
	}
	zeta := math.Abs(t.Zeta)
	for ix := b.Min[0]; ix < b.Max[0]; ix++ {
		x, x2 := f.X[ix], f.X2[ix]
		for iy := b.Min[1]; iy < b.Max[1]; iy++ {
			y, y2 := f.Y[iy], f.Y2[iy]
			row := vol.Row(ix, iy)
			for iz := b.Min[2]; iz < b.Max[2]; iz++ {
				z := f.Z[iz]
				r := math.Sqrt(x2 + y2 + f.Z2[iz])
				row[iz] += coef * math.Exp(-zeta*r) * ipow(r, t.D) * SlaterAngular(t, x, y, z)
			}
		}
	}
}

//slaters evaluates a Slater basis. Each term reads one MO coefficient, except the contracted
//ones, which read again the coefficient of the previous term.
func (C *Calculation) slaters(ctx context.Context, f *grid.Frame, cur *basis.Cursor, vol *grid.Volume) error {
	for _, t := range C.basis.Slaters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Contracted() {
			cur.Rewind(1)
		}
		coef := t.Coef * cur.Next()
		if coef == 0 || !C.sel[t.Atom] {
			f.Invalidate()
			continue
		}
		f.Center(t.Atom, C.pos[t.Atom])
		slaterTerm(f, t, coef, vol)
	}
	return nil
}
