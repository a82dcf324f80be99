/*
 * nci.go, part of qfield.
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

//Package nci computes the non-covalent interaction (NCI) field: the reduced density gradient
//s = c*|grad rho|*rho^(-4/3), signed with the second eigenvalue of the density Hessian.
//
//The density can be promolecular (a sum of atomic fits, with analytic derivatives) or
//read plane by plane from an SCF density (SCF mode, with finite differences). Voxels
//without a meaningful value (density above the cutoff, zero density, grid edges in SCF mode,
//or excluded by the intra/intermolecular selection) get NoValue.
package nci

import (
	"math"

	"github.com/rmera/qfield/eigen3"
)

//NoValue marks voxels without a meaningful reduced gradient. It is the value NCIPLOT
//uses, large enough to stay away from any isosurface of interest.
const NoValue = 100.0

//cRDG = 1/(2(3pi^2)^(1/3))
var cRDG = 1 / (2 * math.Cbrt(3*math.Pi*math.Pi))

//ReducedGradient returns c*|g|*rho^(-4/3). rho must be positive.
func ReducedGradient(rho float64, g [3]float64) float64 {
	n := math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
	return cRDG * n / math.Pow(rho, 4.0/3.0)
}

//Sample is the density and its derivatives at one point, with the derived NCI values.
type Sample struct {
	Rho     float64
	Grad    [3]float64
	Hess    [3][3]float64
	Lambda2 float64 //middle eigenvalue of Hess
	S       float64 //reduced gradient with the sign of Lambda2, or NoValue
	Intra   bool    //whether one molecule carries most of the density
}

//sign returns -1 for negative values, 1 otherwise.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

//finish obtains Lambda2 and the signed reduced gradient for the sample, which must have
//a positive density.
func (s *Sample) finish() {
	s.Lambda2 = eigen3.Middle(s.Hess)
	s.S = sign(s.Lambda2) * ReducedGradient(s.Rho, s.Grad)
}

//Color returns sign(lambda2)*rho, or 0 if the sample has no value.
func (s *Sample) Color() float64 {
	if s.S == NoValue {
		return 0
	}
	return sign(s.Lambda2) * s.Rho
}

//selected returns true if a voxel with the given classification gets a value with the type t.
func (t Type) selected(intra bool) bool {
	switch t {
	case Intra:
		return intra
	case Inter:
		return !intra
	}
	return true
}

//Lerp returns the linear interpolation a+f*(b-a).
func Lerp(a, b, f float64) float64 {
	return a + f*(b-a)
}
