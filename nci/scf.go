/*
 * scf.go, part of qfield.
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
	"errors"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
)

//PlaneSource provides the planes of a density grid, one yz plane (ny*nz values, z fastest)
//at a time, in x order. NextPlane returns io.EOF when there are no more planes.
type PlaneSource interface {
	NextPlane(dst []float64) error
}

//Scanner computes the NCI field from an SCF density read plane by plane. The
//derivatives are obtained by central finite differences, so the scanner keeps a window of
//the last planes read. Each call to Next produces one output plane.
type Scanner struct {
	src   PlaneSource
	spec  grid.Spec
	c     *grid.Coords
	h     [3]float64 //steps in Bohr
	o     *Options
	class *Model
	warn  bool

	ring  [4][]float64 //densities, the plane i is in ring[i%4]
	read  int
	out   int
	s     []float64 //the last output plane
	color []float64
	prev  []float64 //color of the output plane before the last one
}

//NewScanner returns a Scanner for the density planes from src, with the grid spec. If class is not nil,
//it is used to classify voxels as intra or intermolecular (the SCF density can't be partitioned
//by molecule). The DataScaling of the options is applied to every value read.
func NewScanner(src PlaneSource, spec grid.Spec, class *Model, options ...*Options) (*Scanner, error) {
	c, err := grid.NewCoords(spec)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "NewScanner")
	}
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
		o.Check()
	}
	S := &Scanner{src: src, spec: spec, c: c, o: o, class: class}
	S.h = c.Step
	l := spec.N[1] * spec.N[2]
	for i := range S.ring {
		S.ring[i] = make([]float64, l)
	}
	S.s = make([]float64, l)
	S.color = make([]float64, l)
	S.prev = make([]float64, l)
	return S, nil
}

func (S *Scanner) plane(i int) []float64 {
	return S.ring[i%len(S.ring)]
}

//fill reads planes until plane up (or the last one) is in the window.
func (S *Scanner) fill(up int) error {
	nx := S.spec.N[0]
	for S.read <= up && S.read < nx {
		p := S.plane(S.read)
		if err := S.src.NextPlane(p); err != nil {
			if errors.Is(err, io.EOF) {
				return qfield.NewError(fmt.Sprintf("Density ended after %d planes, %d expected", S.read, nx), true, "Scanner.fill")
			}
			return qfield.ErrDecorate(err, "Scanner.fill")
		}
		for j, v := range p {
			p[j] = math.Abs(v) * S.o.DataScaling
		}
		S.read++
	}
	return nil
}

//Next computes the next output plane, and returns its x index, the signed reduced gradients and
//the sign(lambda2)*rho values. The returned slices are overwritten by the following call.
//After the last plane, it returns io.EOF.
func (S *Scanner) Next() (int, []float64, []float64, error) {
	nx, ny, nz := S.spec.N[0], S.spec.N[1], S.spec.N[2]
	if S.out >= nx {
		return S.out, nil, nil, io.EOF
	}
	ix := S.out
	if err := S.fill(ix + 1); err != nil {
		return ix, nil, nil, qfield.ErrDecorate(err, "Scanner.Next")
	}
	S.prev, S.color = S.color, S.prev
	if S.class == nil && S.o.Type != All && !S.warn {
		log.Printf("qfield/nci: No promolecular model to classify the SCF density, %s NCI will be treated as all", S.o.Type)
		S.warn = true
	}
	for i := range S.s {
		S.s[i] = NoValue
		S.color[i] = 0
	}
	S.out++
	if ix == 0 || ix == nx-1 {
		return ix, S.s, S.color, nil
	}
	prev, cur, next := S.plane(ix-1), S.plane(ix), S.plane(ix+1)
	c := S.c
	for iy := 1; iy < ny-1; iy++ {
		for iz := 1; iz < nz-1; iz++ {
			i := iy*nz + iz
			s := differences(prev, cur, next, i, nz, S.h)
			if s.Rho == 0 || s.Rho > S.o.Cutoff {
				continue
			}
			if S.class != nil && S.o.Type != All {
				s.Intra = S.class.Intra([3]float64{c.Axes[0][ix], c.Axes[1][iy], c.Axes[2][iz]})
				if !S.o.Type.selected(s.Intra) {
					continue
				}
			}
			s.finish()
			S.s[i] = s.S
			S.color[i] = s.Color()
		}
	}
	return ix, S.s, S.color, nil
}

//differences returns the density at the point i of the plane cur, and its gradient and Hessian
//from central differences with the planes before and after it. i can't be on an edge of the plane.
func differences(prev, cur, next []float64, i, nz int, h [3]float64) Sample {
	var s Sample
	p := cur[i]
	s.Rho = p
	s.Grad[0] = (next[i] - prev[i]) / (2 * h[0])
	s.Grad[1] = (cur[i+nz] - cur[i-nz]) / (2 * h[1])
	s.Grad[2] = (cur[i+1] - cur[i-1]) / (2 * h[2])
	s.Hess[0][0] = (next[i] - 2*p + prev[i]) / (h[0] * h[0])
	s.Hess[1][1] = (cur[i+nz] - 2*p + cur[i-nz]) / (h[1] * h[1])
	s.Hess[2][2] = (cur[i+1] - 2*p + cur[i-1]) / (h[2] * h[2])
	s.Hess[0][1] = (next[i+nz] - next[i-nz] - prev[i+nz] + prev[i-nz]) / (4 * h[0] * h[1])
	s.Hess[0][2] = (next[i+1] - next[i-1] - prev[i+1] + prev[i-1]) / (4 * h[0] * h[2])
	s.Hess[1][2] = (cur[i+nz+1] - cur[i+nz-1] - cur[i-nz+1] + cur[i-nz-1]) / (4 * h[1] * h[2])
	s.Hess[1][0] = s.Hess[0][1]
	s.Hess[2][0] = s.Hess[0][2]
	s.Hess[2][1] = s.Hess[1][2]
	return s
}

//EdgeValue returns the sign(lambda2)*rho value interpolated between the voxels vA and vB, with
//the fraction f, as a marching cubes algorithm needs. Voxel indexes below ny*nz refer to the
//plane before the last output one, the others, minus ny*nz, to the last output plane.
func (S *Scanner) EdgeValue(vA, vB int, f float64) float64 {
	return Lerp(S.colorAt(vA), S.colorAt(vB), f)
}

func (S *Scanner) colorAt(v int) float64 {
	l := len(S.color)
	if v < l {
		return S.prev[v]
	}
	return S.color[v-l]
}

//Run reads all the density and puts the NCI field in vol, and, if the options have a
//Color volume, sign(lambda2)*rho in it.
func (S *Scanner) Run(ctx context.Context, vol *grid.Volume) error {
	color := S.o.Color
	if vol.N() != S.spec.N || (color != nil && color.N() != S.spec.N) {
		return qfield.NewError(fmt.Sprintf("Volume dimensions don't match the grid %v", S.spec.N), true, "Scanner.Run")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ix, s, c, err := S.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return qfield.ErrDecorate(err, "Scanner.Run")
		}
		copy(vol.Plane(ix), s)
		if color != nil {
			copy(color.Plane(ix), c)
		}
	}
}
