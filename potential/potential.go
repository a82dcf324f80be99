/*
 * potential.go, part of qfield.
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

//Package potential computes simple pairwise fields: the molecular electrostatic potential (MEP)
//from atomic charges, and the molecular lipophilicity potential (MLP) from empirical atomic
//contributions. Both are sums over atoms of a weight times a function of the distance, in A.
package potential

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
)

//Mode is the distance function used by a potential.
type Mode int

const (
	OneOverD        Mode = iota //1/d
	OneOverOnePlusD             //1/(1+d)
	EMinusDOverTwo              //exp(-d/2)
	EMinusD                     //exp(-d)
)

var modeNames = []string{"1/d", "1/(1+d)", "exp(-d/2)", "exp(-d)"}

func (m Mode) String() string {
	if m < OneOverD || m > EMinusD {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

//ParseMode returns the mode for the names used by String, or for "coulomb" (1/d),
//"one-over-one-plus-d", "e-minus-d-over-two" and "e-minus-d".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1/d", "coulomb", "one-over-d":
		return OneOverD, nil
	case "1/(1+d)", "one-over-one-plus-d":
		return OneOverOnePlusD, nil
	case "exp(-d/2)", "e-minus-d-over-two":
		return EMinusDOverTwo, nil
	case "exp(-d)", "e-minus-d":
		return EMinusD, nil
	}
	return OneOverD, qfield.NewError(fmt.Sprintf("Unknown distance mode %q", s), true, "ParseMode")
}

//F returns the value of the distance function at d. For 1/d, d must not be 0.
func (m Mode) F(d float64) float64 {
	switch m {
	case OneOverOnePlusD:
		return 1 / (1 + d)
	case EMinusDOverTwo:
		return math.Exp(-d / 2)
	case EMinusD:
		return math.Exp(-d)
	}
	return 1 / d
}

//weighted is a set of atom positions (A) with their weights. Atoms with zero weight are
//not included.
type weighted struct {
	idx []int
	pos [][3]float64
	w   []float64
}

func newWeighted(n int, coords *v3.Matrix, selection []int, weight func(i int) float64) (*weighted, error) {
	if coords == nil {
		return nil, qfield.NewError("Nil coordinates", true, "newWeighted")
	}
	if coords.NVecs() != n {
		return nil, qfield.NewError(fmt.Sprintf("%d atoms but %d coordinates", n, coords.NVecs()), true, "newWeighted")
	}
	ret := new(weighted)
	for i, ok := range qfield.Selected(n, selection) {
		if !ok {
			continue
		}
		w := weight(i)
		if w == 0 {
			continue
		}
		ret.idx = append(ret.idx, i)
		ret.pos = append(ret.pos, coords.Vec3(i))
		ret.w = append(ret.w, w)
	}
	return ret, nil
}

//grid adds sum_i w_i*f(d_i) to each voxel of vol, considering only atoms within rng of the voxel
//(all atoms if rng<=0). In the 1/d mode a voxel exactly on an atom gets no contribution from it.
func (W *weighted) grid(ctx context.Context, m Mode, rng float64, spec grid.Spec, vol *grid.Volume) error {
	c, err := grid.NewCoordsUnit(spec, 1)
	if err != nil {
		return qfield.ErrDecorate(err, "grid")
	}
	if vol.N() != spec.N {
		return qfield.NewError(fmt.Sprintf("Volume of dimensions %v given for a %v grid", vol.N(), spec.N), true, "grid")
	}
	vol.Zero()
	f := grid.NewFrame(c, rng)
	r2max := rng * rng
	for i, p := range W.pos {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.Center(i, p)
		b := f.B
		if b.Empty() {
			continue
		}
		w := W.w[i]
		for ix := b.Min[0]; ix < b.Max[0]; ix++ {
			for iy := b.Min[1]; iy < b.Max[1]; iy++ {
				xy := f.X2[ix] + f.Y2[iy]
				row := vol.Row(ix, iy)
				for iz := b.Min[2]; iz < b.Max[2]; iz++ {
					d2 := xy + f.Z2[iz]
					if (d2 == 0 && m == OneOverD) || (rng > 0 && d2 > r2max) {
						continue
					}
					row[iz] += w * m.F(math.Sqrt(d2))
				}
			}
		}
	}
	return nil
}

//points returns sum_i w_i*f(d_i) for each point in points (A), with the same rules as grid.
func (W *weighted) points(m Mode, rng float64, points *v3.Matrix) []float64 {
	n := points.NVecs()
	ret := make([]float64, n)
	r2max := rng * rng
	for j := 0; j < n; j++ {
		q := points.Vec3(j)
		for i, p := range W.pos {
			dx, dy, dz := q[0]-p[0], q[1]-p[1], q[2]-p[2]
			d2 := dx*dx + dy*dy + dz*dz
			if (d2 == 0 && m == OneOverD) || (rng > 0 && d2 > r2max) {
				continue
			}
			ret[j] += W.w[i] * m.F(math.Sqrt(d2))
		}
	}
	return ret
}
