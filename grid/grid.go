/*
 * grid.go, part of qfield.
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

//Package grid provides the axis-aligned sampling grids used by the field engines:
//the grid specification, the per-axis coordinates in Bohr, the per-atom local frames
//used to prune the work on each voxel, and the dense volume buffer where the fields
//are accumulated.
package grid

import (
	"fmt"
	"math"

	"github.com/rmera/qfield"
)

//DefaultRange is the capture radius, in Bohr, around each atom. Basis functions
//are considered negligible beyond it, so no voxel farther than this from an atom
//gets a contribution from it.
const DefaultRange = 10.0

//Spec defines an axis-aligned grid. Origin and Step are in A.
type Spec struct {
	Origin [3]float64
	Step   [3]float64
	N      [3]int
}

//Check returns an error if the grid has non-positive steps or point counts.
func (s Spec) Check() error {
	for i := 0; i < 3; i++ {
		if s.N[i] <= 0 {
			return qfield.NewError(fmt.Sprintf("Grid has %d points along axis %d", s.N[i], i), true, "Spec.Check")
		}
		if s.Step[i] <= 0 || math.IsNaN(s.Step[i]) || math.IsInf(s.Step[i], 0) {
			return qfield.NewError(fmt.Sprintf("Grid has an invalid step %g along axis %d", s.Step[i], i), true, "Spec.Check")
		}
	}
	return nil
}

//Len returns the total number of points in the grid.
func (s Spec) Len() int {
	return s.N[0] * s.N[1] * s.N[2]
}

//Point returns the position, in A, of the ix,iy,iz point.
func (s Spec) Point(ix, iy, iz int) [3]float64 {
	return [3]float64{
		s.Origin[0] + float64(ix)*s.Step[0],
		s.Origin[1] + float64(iy)*s.Step[1],
		s.Origin[2] + float64(iz)*s.Step[2],
	}
}

//Coords contains the absolute coordinates of the grid points
//along each axis. The grid is separable, so 3 slices are enough.
type Coords struct {
	Axes   [3][]float64
	Origin [3]float64
	Step   [3]float64
	N      [3]int
	unit   float64
}

//NewCoords returns the grid coordinates of spec in Bohr.
func NewCoords(spec Spec) (*Coords, error) {
	return NewCoordsUnit(spec, qfield.A2Bohr)
}

//NewCoordsUnit returns the grid coordinates of spec, multiplied by the factor unit.
//The potential evaluators use it with unit=1, to work in A.
func NewCoordsUnit(spec Spec, unit float64) (*Coords, error) {
	if err := spec.Check(); err != nil {
		return nil, qfield.ErrDecorate(err, "NewCoords")
	}
	if unit <= 0 {
		return nil, qfield.NewError(fmt.Sprintf("Invalid unit factor %g", unit), true, "NewCoords")
	}
	c := &Coords{N: spec.N, unit: unit}
	for i := 0; i < 3; i++ {
		c.Origin[i] = spec.Origin[i] * unit
		c.Step[i] = spec.Step[i] * unit
		c.Axes[i] = make([]float64, spec.N[i])
		for j := range c.Axes[i] {
			c.Axes[i][j] = c.Origin[i] + float64(j)*c.Step[i]
		}
	}
	return c, nil
}

//Unit returns the factor used to convert the grid from A.
func (c *Coords) Unit() float64 {
	return c.unit
}

//Bounds is a box of voxel indexes, with Min included and Max excluded.
type Bounds struct {
	Min [3]int
	Max [3]int
}

//Empty returns true if the box contains no voxel.
func (b Bounds) Empty() bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] <= b.Min[i] {
			return true
		}
	}
	return false
}

//Contains returns true if the voxel ix,iy,iz is in the box.
func (b Bounds) Contains(ix, iy, iz int) bool {
	return ix >= b.Min[0] && ix < b.Max[0] && iy >= b.Min[1] && iy < b.Max[1] && iz >= b.Min[2] && iz < b.Max[2]
}

//All returns the box containing the whole grid.
func (c *Coords) All() Bounds {
	return Bounds{Max: c.N}
}

//Bounds returns the box of voxels within r of pos along each axis. pos and r
//are in the units of the grid. For each axis, the box goes from floor((pos-origin-r)/step)
//to floor((pos-origin+r)/step), both clamped to [0,n]. A non-positive r returns
//the whole grid.
func (c *Coords) Bounds(pos [3]float64, r float64) Bounds {
	if r <= 0 {
		return c.All()
	}
	var b Bounds
	for i := 0; i < 3; i++ {
		lo := math.Floor((pos[i] - c.Origin[i] - r) / c.Step[i])
		hi := math.Floor((pos[i]-c.Origin[i]+r)/c.Step[i]) + 1
		b.Min[i] = clamp(lo, c.N[i])
		b.Max[i] = clamp(hi, c.N[i])
	}
	return b
}

func clamp(f float64, n int) int {
	if f < 0 {
		return 0
	}
	if f > float64(n) {
		return n
	}
	return int(f)
}
