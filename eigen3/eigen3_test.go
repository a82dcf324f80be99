/*
 * eigen3_test.go, part of qfield.
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

package eigen3

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func reference(Te *testing.T, m [3][3]float64) []float64 {
	s := mat.NewSymDense(3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[0][1], m[1][1], m[1][2],
		m[0][2], m[1][2], m[2][2],
	})
	var e mat.EigenSym
	if ok := e.Factorize(s, false); !ok {
		Te.Fatal("gonum failed to factorize", m)
	}
	return e.Values(nil) //ascending
}

func TestValues(Te *testing.T) {
	ms := [][3][3]float64{
		{{2, 0, 0}, {0, -1, 0}, {0, 0, 0.5}},
		{{1, 1e-9, 0}, {1e-9, 1, 0}, {0, 0, 1}},
		{{3, 1, 1}, {1, 3, 1}, {1, 1, 3}},
		{{-0.2, 0.05, 0.01}, {0.05, 0.3, -0.02}, {0.01, -0.02, 0.1}},
		{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}},
	}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		var m [3][3]float64
		for j := 0; j < 3; j++ {
			for k := j; k < 3; k++ {
				m[j][k] = r.NormFloat64()
				m[k][j] = m[j][k]
			}
		}
		ms = append(ms, m)
	}
	for _, m := range ms {
		got := Values(m)
		exp := reference(Te, m)
		if !floats.EqualApprox(got[:], exp, 1e-8) {
			Te.Errorf("Eigenvalues of %v: %v, expected %v", m, got, exp)
		}
		if got[0] > got[1] || got[1] > got[2] {
			Te.Errorf("Eigenvalues not in ascending order: %v", got)
		}
	}
}

func TestMiddle(Te *testing.T) {
	if m := Middle([3][3]float64{{5, 0, 0}, {0, -3, 0}, {0, 0, 1}}); m != 1 {
		Te.Errorf("Middle eigenvalue %g, expected 1", m)
	}
	//one positive curvature and two negative ones, as between two bonded atoms
	if m := Middle([3][3]float64{{0.3, 0, 0}, {0, -0.1, 0.02}, {0, 0.02, -0.2}}); m >= 0 {
		Te.Errorf("Middle eigenvalue %g, expected a negative value", m)
	}
}
