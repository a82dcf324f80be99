/*
 * nciplot.go, part of qfield.
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

//Package nciplot collects the voxels of an NCI field and exports them as the
//classic NCIPLOT analysis data: the s vs sign(lambda2)*rho scatter, as CSV or PNG,
//and its 2D histogram (the fingerprint of the interactions).
package nciplot

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/histo"
	"github.com/rmera/qfield/nci"
)

//Point is one voxel with a defined NCI value. X, Y, Z are in A.
type Point struct {
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	Z       float64 `csv:"z"`
	SignRho float64 `csv:"sign_lambda2_rho"`
	S       float64 `csv:"s"`
}

//Collect returns the voxels of the NCI field s (with sign(lambda2)*rho in color) with
//|s| at most smax. Voxels with nci.NoValue are never included. A non-positive smax
//includes all voxels with a value.
func Collect(spec grid.Spec, s, color *grid.Volume, smax float64) ([]Point, error) {
	if s == nil || color == nil {
		return nil, qfield.NewError("Nil volume", true, "nciplot.Collect")
	}
	if s.N() != spec.N || color.N() != spec.N {
		return nil, qfield.NewError(fmt.Sprintf("Volumes of dimensions %v and %v for a %v grid", s.N(), color.N(), spec.N), true, "nciplot.Collect")
	}
	var ret []Point
	for ix := 0; ix < spec.N[0]; ix++ {
		for iy := 0; iy < spec.N[1]; iy++ {
			srow, crow := s.Row(ix, iy), color.Row(ix, iy)
			for iz, v := range srow {
				if v == nci.NoValue || (smax > 0 && math.Abs(v) > smax) {
					continue
				}
				p := spec.Point(ix, iy, iz)
				ret = append(ret, Point{X: p[0], Y: p[1], Z: p[2], SignRho: crow[iz], S: math.Abs(v)})
			}
		}
	}
	return ret, nil
}

//WriteCSV writes the points, with a header line, to w.
func WriteCSV(w io.Writer, points []Point) error {
	if err := gocsv.Marshal(points, w); err != nil {
		return qfield.NewError(err.Error(), true, "nciplot.WriteCSV")
	}
	return nil
}

//WriteCSVFile writes the points to the file name.
func WriteCSVFile(name string, points []Point) error {
	f, err := os.Create(name)
	if err != nil {
		return qfield.NewError(err.Error(), true, "nciplot.WriteCSVFile")
	}
	if err := WriteCSV(f, points); err != nil {
		f.Close()
		return qfield.ErrDecorate(err, "nciplot.WriteCSVFile "+name)
	}
	if err := f.Close(); err != nil {
		return qfield.NewError(err.Error(), true, "nciplot.WriteCSVFile")
	}
	return nil
}

//ReadCSV reads points written by WriteCSV.
func ReadCSV(r io.Reader) ([]Point, error) {
	var points []Point
	if err := gocsv.Unmarshal(r, &points); err != nil {
		return nil, qfield.NewError(err.Error(), true, "nciplot.ReadCSV")
	}
	return points, nil
}

//Fingerprint returns the 2D histogram of the points, with sign(lambda2)*rho in rows
//(nrho bins between -rhomax and rhomax) and s in columns (ns bins between 0 and smax).
//The histogram is normalized.
func Fingerprint(points []Point, nrho, ns int, rhomax, smax float64) *histo.Matrix {
	M := histo.NewMatrix(histo.Bins(nrho, -rhomax, rhomax), histo.Bins(ns, 0, smax))
	for _, p := range points {
		M.AddData(p.SignRho, p.S)
	}
	M.Normalize()
	return M
}

//Spectrum returns the histogram of sign(lambda2)*rho for the points with s below
//sthreshold, in n bins between -rhomax and rhomax. The peaks correspond to the different
//interactions: attractive for negative values, repulsive for positive ones, and van der
//Waals close to zero.
func Spectrum(points []Point, n int, rhomax, sthreshold float64) *histo.Data {
	D := histo.NewData(histo.Bins(n, -rhomax, rhomax))
	for _, p := range points {
		if p.S < sthreshold {
			D.AddData(p.SignRho)
		}
	}
	return D
}
