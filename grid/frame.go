/*
 * frame.go, part of qfield.
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

//Frame holds the coordinates of the grid relative to one atom, and their
//squares, within the atom's bounding box. The evaluators move a frame from atom
//to atom; each goroutine needs its own frame.
type Frame struct {
	c          *Coords
	r          float64
	atom       int
	pos        [3]float64
	B          Bounds
	X, Y, Z    []float64
	X2, Y2, Z2 []float64
}

//NewFrame returns a frame for the grid c, with capture radius r (in the units of c).
//The frame is not centered on any atom.
func NewFrame(c *Coords, r float64) *Frame {
	return &Frame{
		c:    c,
		r:    r,
		atom: -1,
		X:    make([]float64, c.N[0]),
		Y:    make([]float64, c.N[1]),
		Z:    make([]float64, c.N[2]),
		X2:   make([]float64, c.N[0]),
		Y2:   make([]float64, c.N[1]),
		Z2:   make([]float64, c.N[2]),
	}
}

//Coords returns the grid the frame belongs to.
func (f *Frame) Coords() *Coords {
	return f.c
}

//Atom returns the index of the atom the frame is centered on, or -1.
func (f *Frame) Atom() int {
	return f.atom
}

//Position returns the position of the current center.
func (f *Frame) Position() [3]float64 {
	return f.pos
}

//Invalidate marks the frame as not centered on any atom, so the
//next Center call recomputes everything.
func (f *Frame) Invalidate() {
	f.atom = -1
}

//Center recomputes the bounding box and the relative coordinates for the atom
//with index atom, at pos (in the units of the grid). Calling it again for the
//atom the frame is already centered on does nothing.
func (f *Frame) Center(atom int, pos [3]float64) {
	if atom >= 0 && atom == f.atom && pos == f.pos {
		return
	}
	f.atom = atom
	f.pos = pos
	f.B = f.c.Bounds(pos, f.r)
	rel := [3][]float64{f.X, f.Y, f.Z}
	sq := [3][]float64{f.X2, f.Y2, f.Z2}
	for a := 0; a < 3; a++ {
		ax := f.c.Axes[a]
		for i := f.B.Min[a]; i < f.B.Max[a]; i++ {
			d := ax[i] - pos[a]
			rel[a][i] = d
			sq[a][i] = d * d
		}
	}
}
