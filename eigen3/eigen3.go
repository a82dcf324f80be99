/*
 * eigen3.go, part of qfield.
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

//Package eigen3 obtains the eigenvalues of real symmetric 3x3 matrices, such as the
//Hessian of the electron density, in closed form.
package eigen3

import (
	"math"
	"sort"
)

//Values returns the eigenvalues of the symmetric matrix m, in ascending order.
//Only the upper triangle of m is used. The trigonometric solution of the
//characteristic cubic is used, so there are no iterations that could fail to converge
//for nearly degenerate matrices.
func Values(m [3][3]float64) [3]float64 {
	a01, a02, a12 := m[0][1], m[0][2], m[1][2]
	p1 := a01*a01 + a02*a02 + a12*a12
	if p1 == 0 {
		//diagonal
		r := [3]float64{m[0][0], m[1][1], m[2][2]}
		sort.Float64s(r[:])
		return r
	}
	q := (m[0][0] + m[1][1] + m[2][2]) / 3
	d0, d1, d2 := m[0][0]-q, m[1][1]-q, m[2][2]-q
	p2 := d0*d0 + d1*d1 + d2*d2 + 2*p1
	p := math.Sqrt(p2 / 6)
	if p == 0 {
		return [3]float64{q, q, q}
	}
	//B = (A - qI)/p, and r = det(B)/2
	b00, b11, b22 := d0/p, d1/p, d2/p
	b01, b02, b12 := a01/p, a02/p, a12/p
	det := b00*(b11*b22-b12*b12) - b01*(b01*b22-b12*b02) + b02*(b01*b12-b11*b02)
	r := det / 2
	//rounding can take r slightly out of [-1,1]
	var phi float64
	switch {
	case r <= -1:
		phi = math.Pi / 3
	case r >= 1:
		phi = 0
	default:
		phi = math.Acos(r) / 3
	}
	e1 := q + 2*p*math.Cos(phi)
	e3 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	e2 := 3*q - e1 - e3
	ret := [3]float64{e3, e2, e1}
	//e3<=e2<=e1 holds analytically, but not always numerically.
	sort.Float64s(ret[:])
	return ret
}

//Middle returns the second (middle) eigenvalue of m.
func Middle(m [3][3]float64) float64 {
	return Values(m)[1]
}
