/*
 * mep.go, part of qfield.
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

package potential

import (
	"context"
	"log"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
)

//MEP is a molecular electrostatic potential from the partial charges of the atoms.
type MEP struct {
	Mode  Mode
	Range float64 //atoms farther than this (A) from a point are ignored. 0 means no limit.
}

//NewMEP returns a Coulomb-like MEP without distance limit.
func NewMEP() *MEP {
	return &MEP{Mode: OneOverD}
}

//Check replaces invalid values with the defaults.
func (M *MEP) Check() {
	if M.Mode < OneOverD || M.Mode > EMinusD {
		log.Printf("qfield/potential: Invalid MEP mode %d, will use %s", int(M.Mode), OneOverD)
		M.Mode = OneOverD
	}
	if M.Range < 0 {
		log.Printf("qfield/potential: Invalid MEP range %g, will use no limit", M.Range)
		M.Range = 0
	}
}

func (M *MEP) weighted(mol qfield.Atomer, coords *v3.Matrix, selection []int) (*weighted, error) {
	M.Check()
	return newWeighted(mol.Len(), coords, selection, func(i int) float64 { return mol.Atom(i).Charge })
}

//Grid puts in vol the MEP of the selected atoms of mol (all, if selection is nil), with
//coordinates coords, on the grid spec. In the 1/d mode, points on top of an atom get no
//contribution from it.
func (M *MEP) Grid(ctx context.Context, mol qfield.Atomer, coords *v3.Matrix, selection []int, spec grid.Spec, vol *grid.Volume) error {
	w, err := M.weighted(mol, coords, selection)
	if err != nil {
		return qfield.ErrDecorate(err, "MEP.Grid")
	}
	return qfield.ErrDecorate(w.grid(ctx, M.Mode, M.Range, spec, vol), "MEP.Grid")
}

//Points returns the MEP at each of the points (A), for instance the vertices of a surface.
func (M *MEP) Points(mol qfield.Atomer, coords *v3.Matrix, selection []int, points *v3.Matrix) ([]float64, error) {
	w, err := M.weighted(mol, coords, selection)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "MEP.Points")
	}
	return w.points(M.Mode, M.Range, points), nil
}
