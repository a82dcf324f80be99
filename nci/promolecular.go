/*
 * promolecular.go, part of qfield.
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
	"log"
	"math"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
)

//Model is a promolecular density: a sum of spherical atomic densities, from fits
//for the elements up to Ar. Heavier atoms are treated as Ar.
type Model struct {
	pos  [][3]float64 //Bohr
	z    []int
	mol  []int
	nmol int
	o    *Options
}

//NewModel returns the promolecular density of the atoms in mol with coordinates coords (in A).
//Only the atoms with indexes in selection are included (all of them if selection is nil).
//The Molecule field of the atoms is used for the intra/intermolecular classification.
func NewModel(mol qfield.Atomer, coords *v3.Matrix, selection []int, options ...*Options) (*Model, error) {
	if mol == nil || coords == nil {
		return nil, qfield.NewError("Nil atoms or coordinates", true, "nci.NewModel")
	}
	if mol.Len() != coords.NVecs() {
		return nil, qfield.NewError(fmt.Sprintf("%d atoms but %d coordinates", mol.Len(), coords.NVecs()), true, "nci.NewModel")
	}
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
		o.Check()
	}
	M := &Model{o: o, nmol: qfield.Molecules(mol)}
	sel := qfield.Selected(mol.Len(), selection)
	heavy := 0
	for i, ok := range sel {
		if !ok {
			continue
		}
		at := mol.Atom(i)
		z := at.Z
		if z == 0 && at.Symbol != "" {
			var err error
			if z, err = qfield.SymbolZ(at.Symbol); err != nil {
				return nil, qfield.ErrDecorate(err, "nci.NewModel")
			}
		}
		if z < 0 {
			return nil, qfield.NewError(fmt.Sprintf("Atom %d has atomic number %d", i, z), true, "nci.NewModel")
		}
		if z > maxZ {
			heavy++
			z = maxZ
		}
		if at.Molecule < 0 {
			return nil, qfield.NewError(fmt.Sprintf("Atom %d has a negative molecule index %d", i, at.Molecule), true, "nci.NewModel")
		}
		M.pos = append(M.pos, qfield.A2BohrVec(coords.Vec3(i)))
		M.z = append(M.z, z)
		M.mol = append(M.mol, at.Molecule)
	}
	if heavy > 0 {
		log.Printf("qfield/nci: %d atoms are heavier than Ar, and will be treated as Ar in the promolecular density", heavy)
	}
	if o.Type != All && M.nmol < 2 {
		log.Printf("qfield/nci: %s NCI requested for a single molecule", o.Type)
	}
	return M, nil
}

//Options returns the options of the model.
func (M *Model) Options() *Options {
	return M.o
}

//eval accumulates the density, gradient and Hessian at pos (Bohr) over all atoms within the capture
//radius. If early is true, it stops as soon as the density exceeds the cutoff, and returns false.
//If molrho is not nil, the density of each molecule is added to it.
func (M *Model) eval(pos [3]float64, early bool, molrho []float64) (Sample, bool) {
	var s Sample
	R := M.o.Range
	R2 := R * R
	var d [3]float64
	for i, p := range M.pos {
		d[0], d[1], d[2] = pos[0]-p[0], pos[1]-p[1], pos[2]-p[2]
		if math.Abs(d[0]) > R || math.Abs(d[1]) > R || math.Abs(d[2]) > R {
			continue
		}
		r2 := d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
		if r2 > R2 {
			continue
		}
		r := math.Sqrt(r2)
		c, zeta := Fit(M.z[i])
		var rho, d1, d2 float64
		for k := 0; k < 3; k++ {
			if c[k] == 0 {
				continue
			}
			e := c[k] * math.Exp(-r/zeta[k])
			rho += e
			d1 -= e / zeta[k]
			d2 += e / (zeta[k] * zeta[k])
		}
		s.Rho += rho
		if molrho != nil {
			molrho[M.mol[i]] += rho
		}
		if early && s.Rho > M.o.Cutoff {
			return s, false
		}
		if r == 0 {
			continue
		}
		u := [3]float64{d[0] / r, d[1] / r, d[2] / r}
		for a := 0; a < 3; a++ {
			s.Grad[a] += d1 * u[a]
			for b := a; b < 3; b++ {
				h := d2*u[a]*u[b] - d1/r*u[a]*u[b]
				if a == b {
					h += d1 / r
				}
				s.Hess[a][b] += h
			}
		}
	}
	for a := 0; a < 3; a++ {
		for b := 0; b < a; b++ {
			s.Hess[a][b] = s.Hess[b][a]
		}
	}
	return s, true
}

//intra returns true if one molecule carries at least IntraFraction of the total density rho.
func (M *Model) intra(molrho []float64, rho float64) bool {
	if M.nmol < 2 {
		return true
	}
	top := 0.0
	for _, v := range molrho {
		if v > top {
			top = v
		}
	}
	return top >= M.o.IntraFraction*rho
}

func (M *Model) sample(pos [3]float64, early bool, molrho []float64) Sample {
	clear(molrho)
	s, ok := M.eval(pos, early, molrho)
	s.Intra = M.intra(molrho, s.Rho)
	if !ok || s.Rho == 0 || s.Rho > M.o.Cutoff || !M.o.Type.selected(s.Intra) {
		s.S = NoValue
		return s
	}
	s.finish()
	return s
}

//Point returns the promolecular density, its derivatives and the NCI values at pos (in Bohr).
//Rho, Grad and Hess are always complete, S follows the same rules as in Grid.
func (M *Model) Point(pos [3]float64) Sample {
	return M.sample(pos, false, make([]float64, M.nmol))
}

//Intra returns true if the point pos (Bohr) is dominated by the density of one molecule.
func (M *Model) Intra(pos [3]float64) bool {
	molrho := make([]float64, M.nmol)
	s, _ := M.eval(pos, false, molrho)
	return M.intra(molrho, s.Rho)
}

//Grid puts the signed reduced density gradient on each point of the grid spec in vol, and,
//if the options have a Color volume, sign(lambda2)*rho in it.
func (M *Model) Grid(ctx context.Context, spec grid.Spec, vol *grid.Volume) error {
	c, err := grid.NewCoords(spec)
	if err != nil {
		return qfield.ErrDecorate(err, "nci.Grid")
	}
	color := M.o.Color
	if vol.N() != spec.N || (color != nil && color.N() != spec.N) {
		return qfield.NewError(fmt.Sprintf("Volume dimensions don't match the grid %v", spec.N), true, "nci.Grid")
	}
	molrho := make([]float64, M.nmol)
	for ix, x := range c.Axes[0] {
		if err := ctx.Err(); err != nil {
			return err
		}
		for iy, y := range c.Axes[1] {
			row := vol.Row(ix, iy)
			var crow []float64
			if color != nil {
				crow = color.Row(ix, iy)
			}
			for iz, z := range c.Axes[2] {
				s := M.sample([3]float64{x, y, z}, true, molrho)
				row[iz] = s.S
				if crow != nil {
					crow[iz] = s.Color()
				}
			}
		}
	}
	return nil
}

//Promolecular computes the promolecular NCI field of the selected atoms of mol, with coordinates
//coords (A), on the grid spec, and puts it in vol. See Model.Grid.
func Promolecular(ctx context.Context, mol qfield.Atomer, coords *v3.Matrix, selection []int, spec grid.Spec, vol *grid.Volume, o *Options) error {
	M, err := NewModel(mol, coords, selection, o)
	if err != nil {
		return qfield.ErrDecorate(err, "Promolecular")
	}
	return qfield.ErrDecorate(M.Grid(ctx, spec, vol), "Promolecular")
}
