/*
 * gaussian.go, part of qfield.
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
	"math"

	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/grid"
)

//Angular normalization constants, (2/pi)^(3/4)*2^l, for l=0..3.
const (
	NormS = 0.712705470
	NormP = 1.42541094
	NormD = 2.8508219178923
	NormF = 5.70164383578
)

var norms = [4]float64{NormS, NormP, NormD, NormF}

//Normalization returns the normalization of a primitive of angular momentum l, exponent alpha and
//contraction coefficient c: c*alpha^((2l+3)/4)*K_l, where K_l is the constant for l. For the d and f
//shells this is the normalization of the xy and xyz-type components; the others carry an extra factor
//(see the component tables). Panics for l>3.
func Normalization(l int, alpha, c float64) float64 {
	if l < 0 || l > 3 {
		panic("qfield/mo: Normalization only defined for l=0..3")
	}
	return c * math.Pow(alpha, float64(2*l+3)/4) * norms[l]
}

//A cartesian monomial x^X y^Y z^Z
type monomial struct {
	X, Y, Z int
}

func (m monomial) degree() int {
	return m.X + m.Y + m.Z
}

//The cartesian monomials each evaluated kind expands to. For the cartesian kinds
//they follow the canonical component order.
var (
	monoS  = []monomial{{0, 0, 0}}
	monoP  = []monomial{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	monoSP = []monomial{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	monoD  = []monomial{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}, {1, 1, 0}, {1, 0, 1}, {0, 1, 1}}
	monoF  = []monomial{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}, {1, 2, 0}, {2, 1, 0}, {2, 0, 1}, {1, 0, 2}, {0, 1, 2}, {0, 2, 1}, {1, 1, 1}}
)

var (
	sqrt3  = math.Sqrt(3)
	sqrt6  = math.Sqrt(6)
	sqrt10 = math.Sqrt(10)
	sqrt15 = math.Sqrt(15)
)

//expansion holds, for one shell kind, the monomials it expands to and, for each
//canonical component, the weight of each monomial.
type expansion struct {
	mono []monomial
	w    [][]float64
}

func diagonal(d ...float64) [][]float64 {
	r := make([][]float64, len(d))
	for i, v := range d {
		r[i] = make([]float64, len(d))
		r[i][i] = v
	}
	return r
}

//expansions for the kinds we can evaluate. The entries for the other kinds are nil.
var expansions = [...]*expansion{
	basis.S:  {monoS, diagonal(1)},
	basis.P:  {monoP, diagonal(1, 1, 1)},
	basis.SP: {monoSP, diagonal(1, 1, 1, 1)},
	basis.D6: {monoD, diagonal(1/sqrt3, 1/sqrt3, 1/sqrt3, 1, 1, 1)},
	basis.D5: {monoD, [][]float64{
		//xx yy zz xy xz yz
		{-1 / (2 * sqrt3), -1 / (2 * sqrt3), 1 / sqrt3, 0, 0, 0}, //d0
		{0, 0, 0, 0, 1, 0},      //d+1
		{0, 0, 0, 0, 0, 1},      //d-1
		{0.5, -0.5, 0, 0, 0, 0}, //d+2
		{0, 0, 0, 1, 0, 0},      //d-2
	}},
	basis.F10: {monoF, diagonal(1/sqrt15, 1/sqrt15, 1/sqrt15, 1/sqrt3, 1/sqrt3, 1/sqrt3, 1/sqrt3, 1/sqrt3, 1/sqrt3, 1)},
	basis.F7: {monoF, [][]float64{
		//xxx yyy zzz xyy xxy xxz xzz yzz yyz xyz
		{0, 0, 1 / sqrt15, 0, 0, -3 / (2 * sqrt15), 0, 0, -3 / (2 * sqrt15), 0}, //f0
		{-1 / (2 * sqrt10), 0, 0, -1 / (2 * sqrt10), 0, 0, 2 / sqrt10, 0, 0, 0}, //f+1
		{0, -1 / (2 * sqrt10), 0, 0, -1 / (2 * sqrt10), 0, 0, 2 / sqrt10, 0, 0}, //f-1
		{0, 0, 0, 0, 0, 0.5, 0, 0, -0.5, 0},                                     //f+2
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 1},                                          //f-2
		{1 / (2 * sqrt6), 0, 0, -3 / (2 * sqrt6), 0, 0, 0, 0, 0, 0},             //f+3
		{0, -1 / (2 * sqrt6), 0, 0, 3 / (2 * sqrt6), 0, 0, 0, 0, 0},             //f-3
	}},
	basis.G15: nil,
	basis.G9:  nil,
}

//Supported returns true if shells of kind k can be evaluated.
func Supported(k basis.ShellKind) bool {
	return k.Valid() && expansions[k] != nil
}

//gscratch is the per-goroutine working memory of the Gaussian evaluator.
type gscratch struct {
	f   *grid.Frame
	c   []float64       //the shell's MO coefficients, in canonical order
	m   []float64       //the contracted weight of each monomial
	w   []float64       //the weight of each monomial for the current primitive
	pw  [3][4][]float64 //per axis, x^p*exp(-alpha*x^2) for p=0..3
	g   [4]float64
	fxy []float64
}

func newGScratch(f *grid.Frame) *gscratch {
	c := f.Coords()
	s := &gscratch{f: f, c: make([]float64, 15), m: make([]float64, 10), w: make([]float64, 10), fxy: make([]float64, 10)}
	for a := 0; a < 3; a++ {
		for p := range s.pw[a] {
			s.pw[a][p] = make([]float64, c.N[a])
		}
	}
	return s
}

//gaussianShell adds the contribution of shell sh, with MO coefficients coeffs (in canonical order),
//to vol. The frame in s must be centered on the shell's atom.
func gaussianShell(s *gscratch, sh basis.Shell, prims []basis.Primitive, coeffs []float64, vol *grid.Volume) {
	e := expansions[sh.Kind]
	nm := len(e.mono)
	m := s.m[:nm]
	for j := range m {
		m[j] = 0
	}
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		for j, w := range e.w[i] {
			m[j] += c * w
		}
	}
	b := s.f.B
	if b.Empty() {
		return
	}
	rel := [3][]float64{s.f.X, s.f.Y, s.f.Z}
	sq := [3][]float64{s.f.X2, s.f.Y2, s.f.Z2}
	maxp := sh.Kind.L()
	for _, p := range prims {
		w := s.w[:nm]
		nonzero := false
		for j, mono := range e.mono {
			l := mono.degree()
			c := p.C1
			if sh.Kind == basis.SP && l == 1 {
				c = p.C2
			}
			if c == 0 || m[j] == 0 {
				w[j] = 0
				continue
			}
			w[j] = m[j] * Normalization(l, p.Exp, c)
			nonzero = true
		}
		if !nonzero {
			continue
		}
		for a := 0; a < 3; a++ {
			pw := s.pw[a]
			for i := b.Min[a]; i < b.Max[a]; i++ {
				ex := math.Exp(-p.Exp * sq[a][i])
				pw[0][i] = ex
				for k := 1; k <= maxp; k++ {
					pw[k][i] = pw[k-1][i] * rel[a][i]
				}
			}
		}
		accumulate(s, e.mono, w, maxp, b, vol)
	}
}

//accumulate adds sum_j w_j*X^xj*Y^yj*Z^zj*exp(-alpha*r^2) to the voxels in b, using the
//per-axis tables in s.
func accumulate(s *gscratch, mono []monomial, w []float64, maxp int, b grid.Bounds, vol *grid.Volume) {
	px, py, pz := s.pw[0], s.pw[1], s.pw[2]
	g := s.g[:maxp+1]
	fxy := s.fxy[:len(mono)]
	for ix := b.Min[0]; ix < b.Max[0]; ix++ {
		for iy := b.Min[1]; iy < b.Max[1]; iy++ {
			for j, mn := range mono {
				fxy[j] = w[j] * px[mn.X][ix] * py[mn.Y][iy]
			}
			for k := range g {
				g[k] = 0
			}
			for j, mn := range mono {
				g[mn.Z] += fxy[j]
			}
			row := vol.Row(ix, iy)
			for iz := b.Min[2]; iz < b.Max[2]; iz++ {
				v := 0.0
				for k, gk := range g {
					if gk != 0 {
						v += gk * pz[k][iz]
					}
				}
				row[iz] += v
			}
		}
	}
}
