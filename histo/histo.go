/*
 * histo.go, part of qfield.
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

//Package histo provides one and two-dimensional histograms, used to summarize
//fields over a grid, such as the NCI fingerprints.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

//Bins returns n+1 evenly spaced dividers from lo to hi, which define n bins.
func Bins(n int, lo, hi float64) []float64 {
	if n < 1 || hi <= lo {
		panic(fmt.Sprintf("qfield/histo.Bins: Can't make %d bins between %g and %g", n, lo, hi))
	}
	return floats.Span(make([]float64, n+1), lo, hi)
}

//bin returns the index of the bin in dividers containing v, or -1 if
//v is outside the range of the dividers. The last divider is exclusive.
func bin(dividers []float64, v float64) int {
	if len(dividers) < 2 || v < dividers[0] || v >= dividers[len(dividers)-1] || math.IsNaN(v) {
		return -1
	}
	//the first divider larger than v closes the bin
	return sort.SearchFloat64s(dividers, math.Nextafter(v, math.Inf(1))) - 1
}

func checkDividers(d []float64, caller string) {
	if len(d) < 2 || !sort.Float64sAreSorted(d) {
		panic("qfield/histo." + caller + ": dividers must be at least 2, in increasing order")
	}
}

//Data is a one-dimensional histogram.
type Data struct {
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("Normalized: %v, TotalData: %d\n", D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns an empty histogram with the given dividers.
func NewData(dividers []float64) *Data {
	checkDividers(dividers, "NewData")
	d := new(Data)
	//the slice is copied so nobody changes it from outside
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	return d
}

//AddData adds the given data point(s) to the histogram. Values out of the range of the dividers are
//not counted in any bin, but they count for the total used to normalize.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		if b := bin(D.dividers, v); b >= 0 {
			D.histo[b]++
		}
	}
	D.total += len(point)
	//if it was normalized, we return it to that state
	if norma {
		D.Normalize()
	}
}

//Total returns the number of data points added to the histogram.
func (D *Data) Total() int {
	return D.total
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//View returns the bins of the histogram, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Matrix is a two-dimensional histogram, with bins in rows along the first variable
//and in columns along the second.
type Matrix struct {
	rows, cols int
	xdiv, ydiv []float64
	d          []float64 //row-major
	total      int
	normalized bool
}

//NewMatrix returns an empty 2D histogram with the given dividers for each variable.
func NewMatrix(xdividers, ydividers []float64) *Matrix {
	checkDividers(xdividers, "NewMatrix")
	checkDividers(ydividers, "NewMatrix")
	M := &Matrix{
		rows: len(xdividers) - 1,
		cols: len(ydividers) - 1,
		xdiv: append([]float64(nil), xdividers...),
		ydiv: append([]float64(nil), ydividers...),
	}
	M.d = make([]float64, M.rows*M.cols)
	return M
}

//Dims returns the number of bins along each variable.
func (M *Matrix) Dims() (int, int) {
	return M.rows, M.cols
}

//Check returns an error if the given row and column indexes are out of range.
//if pan is given and true, it panics instead.
func (M *Matrix) Check(r, c int, pan ...bool) error {
	var err error
	if r < 0 || r >= M.rows {
		err = fmt.Errorf("qfield/histo: Row %d out of range", r)
	}
	if c < 0 || c >= M.cols {
		err = fmt.Errorf("qfield/histo: Column %d out of range", c)
	}
	if err != nil && len(pan) > 0 && pan[0] {
		panic(err.Error())
	}
	return err
}

//returns the index in the data slice given the row and column indexes.
func (M *Matrix) rc2i(r, c int) int {
	M.Check(r, c, true)
	return M.cols*r + c
}

//At returns the value of the r,c bin.
func (M *Matrix) At(r, c int) float64 {
	return M.d[M.rc2i(r, c)]
}

//AddData adds the point x,y to the histogram. Points out of range count only for the total.
func (M *Matrix) AddData(x, y float64) {
	norma := M.normalized
	if norma {
		M.UnNormalize()
	}
	r, c := bin(M.xdiv, x), bin(M.ydiv, y)
	if r >= 0 && c >= 0 {
		M.d[M.cols*r+c]++
	}
	M.total++
	if norma {
		M.Normalize()
	}
}

//Total returns the number of points added.
func (M *Matrix) Total() int {
	return M.total
}

//Normalize divides every bin by the number of points added.
func (M *Matrix) Normalize() {
	if M.total <= 0 || M.normalized {
		return
	}
	floats.Scale(1/float64(M.total), M.d)
	M.normalized = true
}

//UnNormalize reverts Normalize.
func (M *Matrix) UnNormalize() {
	if M.total <= 0 || !M.normalized {
		return
	}
	floats.Scale(float64(M.total), M.d)
	M.normalized = false
}

func (M *Matrix) String() string {
	ret := fmt.Sprintf("rows:%d cols:%d total:%d normalized:%v\n", M.rows, M.cols, M.total, M.normalized)
	t := make([]string, 0, M.rows)
	for r := 0; r < M.rows; r++ {
		s := make([]string, 0, M.cols)
		for _, v := range M.d[r*M.cols : (r+1)*M.cols] {
			s = append(s, fmt.Sprintf("%9.3f", v))
		}
		t = append(t, fmt.Sprintf("%6.3f | %s", M.xdiv[r], strings.Join(s, " ")))
	}
	return ret + strings.Join(t, "\n")
}

func (M *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		XDividers  []float64 `json:"xdividers"`
		YDividers  []float64 `json:"ydividers"`
		D          []float64 `json:"data"`
		Total      int       `json:"total"`
		Normalized bool      `json:"normalized"`
	}{M.xdiv, M.ydiv, M.d, M.total, M.normalized})
}
