/*
 * volume.go, part of qfield.
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

package grid

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Volume is a dense 3D array of values. The z index runs fastest, so each
//x index corresponds to a contiguous yz plane, the same order used by cube files.
type Volume struct {
	n    [3]int
	data []float64
}

//NewVolume returns a zero-filled volume with the given dimensions.
func NewVolume(n [3]int) *Volume {
	if n[0] <= 0 || n[1] <= 0 || n[2] <= 0 {
		panic(fmt.Sprintf("qfield/grid: invalid volume dimensions %v", n))
	}
	return &Volume{n: n, data: make([]float64, n[0]*n[1]*n[2])}
}

//NewVolumeFor returns a zero-filled volume matching the grid spec.
func NewVolumeFor(spec Spec) *Volume {
	return NewVolume(spec.N)
}

//Dims returns the number of points along each axis.
func (v *Volume) Dims() (int, int, int) {
	return v.n[0], v.n[1], v.n[2]
}

//N returns the number of points along each axis, as an array.
func (v *Volume) N() [3]int {
	return v.n
}

//Index returns the position of the ix,iy,iz voxel in the underlying slice.
func (v *Volume) Index(ix, iy, iz int) int {
	if ix < 0 || ix >= v.n[0] || iy < 0 || iy >= v.n[1] || iz < 0 || iz >= v.n[2] {
		panic(fmt.Sprintf("qfield/grid: voxel %d %d %d out of range %v", ix, iy, iz, v.n))
	}
	return (ix*v.n[1]+iy)*v.n[2] + iz
}

//At returns the value of a voxel.
func (v *Volume) At(ix, iy, iz int) float64 {
	return v.data[v.Index(ix, iy, iz)]
}

//Set sets the value of a voxel.
func (v *Volume) Set(ix, iy, iz int, val float64) {
	v.data[v.Index(ix, iy, iz)] = val
}

//Add adds val to a voxel.
func (v *Volume) Add(ix, iy, iz int, val float64) {
	v.data[v.Index(ix, iy, iz)] += val
}

//Plane returns a view of the yz plane with index ix. Changes in the view
//are reflected in the volume.
func (v *Volume) Plane(ix int) []float64 {
	if ix < 0 || ix >= v.n[0] {
		panic(fmt.Sprintf("qfield/grid: plane %d out of range %d", ix, v.n[0]))
	}
	l := v.n[1] * v.n[2]
	return v.data[ix*l : (ix+1)*l : (ix+1)*l]
}

//Row returns a view of the z row at ix,iy.
func (v *Volume) Row(ix, iy int) []float64 {
	i := v.Index(ix, iy, 0)
	return v.data[i : i+v.n[2] : i+v.n[2]]
}

//Data returns the underlying slice. It is not a copy.
func (v *Volume) Data() []float64 {
	return v.data
}

//Zero sets all the voxels to 0.
func (v *Volume) Zero() {
	clear(v.data)
}

//Fill sets all the voxels to val.
func (v *Volume) Fill(val float64) {
	for i := range v.data {
		v.data[i] = val
	}
}

//Copy returns a copy of the volume.
func (v *Volume) Copy() *Volume {
	return &Volume{n: v.n, data: slices.Clone(v.data)}
}

//Equal returns true if both volumes have the same dimensions and exactly the same values.
func (v *Volume) Equal(w *Volume) bool {
	return v.n == w.n && floats.Equal(v.data, w.data)
}

//Mask sets to fill every voxel for which keep returns false.
func (v *Volume) Mask(keep func(ix, iy, iz int) bool, fill float64) {
	i := 0
	for ix := 0; ix < v.n[0]; ix++ {
		for iy := 0; iy < v.n[1]; iy++ {
			for iz := 0; iz < v.n[2]; iz++ {
				if !keep(ix, iy, iz) {
					v.data[i] = fill
				}
				i++
			}
		}
	}
}

//Stats contains a summary of the values in a volume.
type Stats struct {
	Min, Max     float64
	Mean, StdDev float64
	N            int //number of voxels considered.
}

func (s Stats) String() string {
	return fmt.Sprintf("N: %d Min: %g Max: %g Mean: %g StdDev: %g", s.N, s.Min, s.Max, s.Mean, s.StdDev)
}

//Stats returns the minimum, maximum, mean and standard deviation of the values
//in the volume, ignoring NaNs and any value equal to one of exclude (the sentinels
//used by the engines, for instance).
func (v *Volume) Stats(exclude ...float64) Stats {
	vals := make([]float64, 0, len(v.data))
	for _, w := range v.data {
		if math.IsNaN(w) || slices.Contains(exclude, w) {
			continue
		}
		vals = append(vals, w)
	}
	var s Stats
	s.N = len(vals)
	if s.N == 0 {
		return s
	}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	if s.N == 1 {
		s.Mean = vals[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	return s
}
