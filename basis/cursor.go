/*
 * cursor.go, part of qfield.
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

package basis

import (
	"fmt"

	"github.com/rmera/qfield"
)

//Cursor walks a molecular orbital coefficient vector. Each shell (or Slater term)
//consumes its coefficients through the cursor, whether the shell's atom is
//evaluated or not, so the coefficients of later shells stay aligned.
type Cursor struct {
	coeffs []float64
	pos    int
}

//NewCursor returns a cursor at the start of coeffs.
func NewCursor(coeffs []float64) *Cursor {
	return &Cursor{coeffs: coeffs}
}

//Pos returns the index of the next coefficient to be read.
func (c *Cursor) Pos() int {
	return c.pos
}

//Remaining returns the number of coefficients not yet consumed.
func (c *Cursor) Remaining() int {
	return len(c.coeffs) - c.pos
}

//Advance moves the cursor n coefficients forward without reading them.
//Panics if that goes beyond the end of the vector.
func (c *Cursor) Advance(n int) {
	if n < 0 || c.pos+n > len(c.coeffs) {
		panic(fmt.Sprintf("qfield/basis: cursor can't advance %d from %d in %d coefficients", n, c.pos, len(c.coeffs)))
	}
	c.pos += n
}

//Rewind moves the cursor n coefficients back.
func (c *Cursor) Rewind(n int) {
	if n < 0 || c.pos-n < 0 {
		panic(fmt.Sprintf("qfield/basis: cursor can't rewind %d from %d", n, c.pos))
	}
	c.pos -= n
}

//Next returns the next coefficient and advances the cursor by one.
func (c *Cursor) Next() float64 {
	v := c.coeffs[c.pos]
	c.Advance(1)
	return v
}

//Take reads the next n coefficients into dst (allocated if too short),
//advances the cursor by n and returns dst[:n]. The returned slice is not
//a view of the coefficient vector.
func (c *Cursor) Take(n int, dst []float64) []float64 {
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	copy(dst, c.coeffs[c.pos:c.pos+n])
	c.Advance(n)
	return dst
}

//TakeShell reads the coefficients of a shell of kind k, reordered to the
//canonical order with order (see Basis.Order), into dst.
func (c *Cursor) TakeShell(k ShellKind, order []int, dst []float64) []float64 {
	n := k.Components()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	src := c.coeffs[c.pos : c.pos+n]
	for i, o := range order {
		dst[i] = src[o]
	}
	c.Advance(n)
	return dst
}

//Done returns an error if the cursor didn't consume exactly all the coefficients.
func (c *Cursor) Done() error {
	if c.pos != len(c.coeffs) {
		return qfield.NewError(fmt.Sprintf("%d MO coefficients were consumed, but %d were given", c.pos, len(c.coeffs)), true, "Cursor.Done")
	}
	return nil
}
