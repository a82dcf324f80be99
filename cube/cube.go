/*
 * cube.go, part of qfield.
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

//Package cube reads and writes Gaussian cube files, the usual format for volumetric data
//in quantum chemistry. Files with the .zst extension are compressed with z-standard.
//
//Only grids with axis-aligned voxels are supported. All the lengths in the Header are in A,
//the conversion to and from the Bohr units of the file is done when reading and writing.
package cube

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
)

//Header is the metadata of a cube file.
type Header struct {
	Comments [2]string
	Spec     grid.Spec
	Atoms    []*qfield.Atom //only Z and Charge are stored in the file.
	Coords   *v3.Matrix     //A
	MOs      []int          //orbitals in the file, if any.
}

//ZstdExt is the extension that marks compressed cube files.
const ZstdExt = ".zst"

//The decoder doesn't implement io.ReadCloser, as its Close method doesn't return anything.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//open returns a reader for the file name, decompressing it if the name ends in ZstdExt.
func open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ZstdExt) {
		return f, nil
	}
	d, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &multiCloser{Reader: d, closers: []io.Closer{zstdReadCloser{d}, f}}, nil
}

//PlaneReader reads a cube file one yz plane at a time, so whole grids never need to be
//in memory. It implements the PlaneSource interface of the nci package.
type PlaneReader struct {
	h      *Header
	r      *bufio.Reader
	fields []string
	closer io.Closer
	planes int
	nmo    int
	mo     int
}

//NewPlaneReader reads the header of the cube in r and returns a PlaneReader for its data.
//If the cube has several orbitals, only the first one is read.
func NewPlaneReader(r io.Reader) (*PlaneReader, error) {
	P := &PlaneReader{r: bufio.NewReader(r)}
	if err := P.readHeader(); err != nil {
		return nil, qfield.ErrDecorate(err, "NewPlaneReader")
	}
	return P, nil
}

//OpenPlanes opens the cube file name (compressed or not) for reading plane by plane.
//The PlaneReader must be closed after use.
func OpenPlanes(name string) (*PlaneReader, error) {
	f, err := open(name)
	if err != nil {
		return nil, qfield.NewError(err.Error(), true, "OpenPlanes")
	}
	P, err := NewPlaneReader(f)
	if err != nil {
		f.Close()
		return nil, qfield.ErrDecorate(err, "OpenPlanes "+name)
	}
	P.closer = f
	return P, nil
}

//Header returns the header of the cube.
func (P *PlaneReader) Header() *Header {
	return P.h
}

//Close closes the underlying file, if the reader was obtained with OpenPlanes.
func (P *PlaneReader) Close() error {
	if P.closer == nil {
		return nil
	}
	return P.closer.Close()
}

func (P *PlaneReader) line() ([]string, error) {
	s, err := P.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return nil, err
	}
	return strings.Fields(s), nil
}

//floats parses the first n fields of a line.
func floats(f []string, n int) ([]float64, error) {
	if len(f) < n {
		return nil, fmt.Errorf("expected at least %d fields, got %d", n, len(f))
	}
	ret := make([]float64, n)
	var err error
	for i := 0; i < n; i++ {
		if ret[i], err = strconv.ParseFloat(f[i], 64); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (P *PlaneReader) readHeader() error {
	h := new(Header)
	for i := range h.Comments {
		s, err := P.r.ReadString('\n')
		if err != nil {
			return qfield.NewError("Can't read the comment lines: "+err.Error(), true, "readHeader")
		}
		h.Comments[i] = strings.TrimRight(s, "\r\n")
	}
	f, err := P.line()
	if err != nil {
		return qfield.NewError("Can't read the atom count: "+err.Error(), true, "readHeader")
	}
	nums, err := floats(f, 4)
	if err != nil {
		return qfield.NewError("Malformed atom count line: "+err.Error(), true, "readHeader")
	}
	natoms := int(nums[0])
	withMOs := natoms < 0
	if withMOs {
		natoms = -natoms
	}
	origin := [3]float64{nums[1], nums[2], nums[3]}
	unit := qfield.Bohr2A
	for i := 0; i < 3; i++ {
		f, err := P.line()
		if err != nil {
			return qfield.NewError("Can't read the grid: "+err.Error(), true, "readHeader")
		}
		v, err := floats(f, 4)
		if err != nil {
			return qfield.NewError("Malformed grid line: "+err.Error(), true, "readHeader")
		}
		n := int(v[0])
		if n < 0 {
			//already in A
			n = -n
			unit = 1
		}
		for j := 1; j < 4; j++ {
			if j-1 != i && v[j] != 0 {
				return qfield.NewError("Only axis-aligned grids are supported", true, "readHeader")
			}
		}
		h.Spec.N[i] = n
		h.Spec.Step[i] = v[i+1]
	}
	for i := 0; i < 3; i++ {
		h.Spec.Origin[i] = origin[i] * unit
		h.Spec.Step[i] *= unit
	}
	if err := h.Spec.Check(); err != nil {
		return qfield.ErrDecorate(err, "readHeader")
	}
	h.Atoms = make([]*qfield.Atom, natoms)
	h.Coords = v3.Zeros(natoms)
	for i := 0; i < natoms; i++ {
		f, err := P.line()
		if err != nil {
			return qfield.NewError(fmt.Sprintf("Can't read atom %d: %s", i, err.Error()), true, "readHeader")
		}
		v, err := floats(f, 5)
		if err != nil {
			return qfield.NewError(fmt.Sprintf("Malformed atom %d: %s", i, err.Error()), true, "readHeader")
		}
		at := &qfield.Atom{ID: i + 1, Z: int(v[0]), Charge: v[1]}
		if at.Z > 0 {
			at.Symbol, _ = qfield.ZSymbol(at.Z)
		}
		h.Atoms[i] = at
		h.Coords.SetVec3(i, [3]float64{v[2] * unit, v[3] * unit, v[4] * unit})
	}
	if withMOs {
		f, err := P.line()
		if err != nil || len(f) == 0 {
			return qfield.NewError("Can't read the orbital line", true, "readHeader")
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || n < 1 {
			return qfield.NewError("Malformed orbital line", true, "readHeader")
		}
		//the list can continue in the next lines
		for len(f)-1 < n {
			more, err := P.line()
			if err != nil {
				return qfield.NewError("Incomplete orbital line", true, "readHeader")
			}
			f = append(f, more...)
		}
		for _, s := range f[1 : n+1] {
			m, err := strconv.Atoi(s)
			if err != nil {
				return qfield.NewError("Malformed orbital index "+s, true, "readHeader")
			}
			h.MOs = append(h.MOs, m)
		}
		P.nmo = n
	}
	P.h = h
	return nil
}

//next returns the next value in the data section.
func (P *PlaneReader) next() (float64, error) {
	for len(P.fields) == 0 {
		f, err := P.line()
		if err != nil {
			return 0, err
		}
		P.fields = f
	}
	v, err := strconv.ParseFloat(P.fields[0], 64)
	P.fields = P.fields[1:]
	return v, err
}

//NextPlane reads the next yz plane (ny*nz values, z fastest) into dst, which must have at least
//that length. It returns io.EOF after the last plane.
func (P *PlaneReader) NextPlane(dst []float64) error {
	n := P.h.Spec.N
	if P.planes >= n[0] {
		return io.EOF
	}
	l := n[1] * n[2]
	if len(dst) < l {
		return qfield.NewError(fmt.Sprintf("Buffer of length %d for planes of %d values", len(dst), l), true, "NextPlane")
	}
	for i := 0; i < l; i++ {
		//with several orbitals, the values of each voxel are consecutive.
		var v float64
		for k := 0; k < max(P.nmo, 1); k++ {
			w, err := P.next()
			if err != nil {
				if err == io.EOF {
					return qfield.NewError(fmt.Sprintf("Data ended in plane %d", P.planes), true, "NextPlane")
				}
				return qfield.NewError(err.Error(), true, "NextPlane")
			}
			if k == P.mo {
				v = w
			}
		}
		dst[i] = v
	}
	P.planes++
	return nil
}

//Read reads a whole cube from r.
func Read(r io.Reader) (*Header, *grid.Volume, error) {
	P, err := NewPlaneReader(r)
	if err != nil {
		return nil, nil, qfield.ErrDecorate(err, "Read")
	}
	vol := grid.NewVolumeFor(P.h.Spec)
	for i := 0; i < P.h.Spec.N[0]; i++ {
		if err := P.NextPlane(vol.Plane(i)); err != nil {
			return nil, nil, qfield.ErrDecorate(err, "Read")
		}
	}
	return P.h, vol, nil
}

//ReadFile reads the cube file name, which can be compressed.
func ReadFile(name string) (*Header, *grid.Volume, error) {
	f, err := open(name)
	if err != nil {
		return nil, nil, qfield.NewError(err.Error(), true, "ReadFile")
	}
	defer f.Close()
	h, v, err := Read(f)
	if err != nil {
		return nil, nil, qfield.ErrDecorate(err, "ReadFile "+name)
	}
	return h, v, nil
}

//Write writes the cube with the header h and the data in vol to w.
func Write(w io.Writer, h *Header, vol *grid.Volume) error {
	if h == nil || vol == nil {
		return qfield.NewError("Nil header or volume", true, "Write")
	}
	if vol.N() != h.Spec.N {
		return qfield.NewError(fmt.Sprintf("Volume of dimensions %v for a %v header", vol.N(), h.Spec.N), true, "Write")
	}
	natoms := len(h.Atoms)
	if h.Coords != nil && h.Coords.NVecs() != natoms {
		return qfield.NewError(fmt.Sprintf("%d atoms but %d coordinates", natoms, h.Coords.NVecs()), true, "Write")
	}
	if natoms > 0 && h.Coords == nil {
		return qfield.NewError("Atoms without coordinates", true, "Write")
	}
	b := bufio.NewWriter(w)
	k := qfield.A2Bohr
	s := h.Spec
	fmt.Fprintf(b, "%s\n%s\n", oneLine(h.Comments[0]), oneLine(h.Comments[1]))
	count := natoms
	if len(h.MOs) > 0 {
		count = -natoms
	}
	fmt.Fprintf(b, "%5d%12.6f%12.6f%12.6f\n", count, s.Origin[0]*k, s.Origin[1]*k, s.Origin[2]*k)
	for i := 0; i < 3; i++ {
		var v [3]float64
		v[i] = s.Step[i] * k
		fmt.Fprintf(b, "%5d%12.6f%12.6f%12.6f\n", s.N[i], v[0], v[1], v[2])
	}
	for i, at := range h.Atoms {
		c := h.Coords.Vec3(i)
		fmt.Fprintf(b, "%5d%12.6f%12.6f%12.6f%12.6f\n", at.Z, at.Charge, c[0]*k, c[1]*k, c[2]*k)
	}
	if len(h.MOs) > 0 {
		//only one orbital is written
		fmt.Fprintf(b, "%5d%5d\n", 1, h.MOs[0])
	}
	for ix := 0; ix < s.N[0]; ix++ {
		for iy := 0; iy < s.N[1]; iy++ {
			for iz, v := range vol.Row(ix, iy) {
				if math.IsNaN(v) {
					v = 0
				}
				fmt.Fprintf(b, "%13.5E", v)
				if iz%6 == 5 && iz != s.N[2]-1 {
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}
	if err := b.Flush(); err != nil {
		return qfield.NewError(err.Error(), true, "Write")
	}
	return nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}

//WriteFile writes the cube to the file name, compressed with zstd if the name ends in ZstdExt.
func WriteFile(name string, h *Header, vol *grid.Volume) error {
	f, err := os.Create(name)
	if err != nil {
		return qfield.NewError(err.Error(), true, "WriteFile")
	}
	var w io.WriteCloser = nopCloser{f}
	if strings.HasSuffix(strings.ToLower(name), ZstdExt) {
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return qfield.NewError(err.Error(), true, "WriteFile")
		}
	}
	if err := Write(w, h, vol); err != nil {
		w.Close()
		f.Close()
		return qfield.ErrDecorate(err, "WriteFile "+name)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return qfield.NewError(err.Error(), true, "WriteFile")
	}
	if err := f.Close(); err != nil {
		return qfield.NewError(err.Error(), true, "WriteFile")
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
