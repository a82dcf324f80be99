/*
 * qfield_test.go, part of qfield.
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

package qfield

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/qfield/v3"
)

const waterXYZ = `3
water
O   0.000000   0.000000   0.117300
H   0.000000   0.757200  -0.469200
H   0.000000  -0.757200  -0.469200
`

const glyPDB = `REMARK a fragment
ATOM      1  N   GLY A   1      -1.195   0.952   0.000  1.00  0.00           N
ATOM      2  CA  GLY A   1       0.000   0.120   0.000  1.00  0.00           C
ATOM      3  H   GLY A   1      -1.100   1.950   0.000  1.00  0.00
HETATM    4  O   HOH B   2       3.000   0.000   0.000  1.00  0.00           O1-
END
`

func TestXYZ(Te *testing.T) {
	top, coords, err := XYZRead(strings.NewReader(waterXYZ))
	if err != nil {
		Te.Fatal(err)
	}
	if top.Len() != 3 || coords.NVecs() != 3 {
		Te.Fatalf("Wrong number of atoms %d %d", top.Len(), coords.NVecs())
	}
	if top.Atom(0).Z != 8 || top.Atom(2).Z != 1 {
		Te.Errorf("Wrong atomic numbers %v", top.Atom(0))
	}
	if c := coords.Vec3(1); math.Abs(c[1]-0.7572) > 1e-9 {
		Te.Errorf("Wrong coordinates %v", c)
	}
	if _, _, err := XYZRead(strings.NewReader("4\nshort\nO 0 0 0\n")); err == nil {
		Te.Error("A truncated file should fail")
	}
}

func TestPDB(Te *testing.T) {
	top, coords, err := PDBRead(strings.NewReader(glyPDB))
	if err != nil {
		Te.Fatal(err)
	}
	if top.Len() != 4 || coords.NVecs() != 4 {
		Te.Fatalf("Wrong number of atoms %d", top.Len())
	}
	ca := top.Atom(1)
	if ca.Name != "CA" || ca.MolName != "GLY" || ca.MolID != 1 || ca.Symbol != "C" {
		Te.Errorf("Wrong atom %v", ca)
	}
	if h := top.Atom(2); h.Symbol != "H" || h.Z != 1 {
		Te.Errorf("Symbol not guessed from the name: %v", h)
	}
	w := top.Atom(3)
	if w.Molecule != 1 || w.Charge != -1 || w.MolName != "HOH" {
		Te.Errorf("Wrong water oxygen %v, molecule %d charge %g", w, w.Molecule, w.Charge)
	}
	if Molecules(top) != 2 {
		Te.Errorf("Expected 2 molecules, got %d", Molecules(top))
	}
}

func TestReadFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "w.xyz")
	if err := os.WriteFile(name, []byte(waterXYZ), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, _, err := ReadFile(name); err != nil {
		Te.Error(err)
	}
	if _, _, err := ReadFile(strings.TrimSuffix(name, "xyz") + "mol2"); err == nil {
		Te.Error("Unknown formats should fail")
	}
}

func TestErrors(Te *testing.T) {
	err := NewError("Bad thing", true, "inner")
	e := ErrDecorate(err, "outer")
	if e.Error() != "outer: inner: Bad thing" {
		Te.Errorf("Wrong decorated message %q", e.Error())
	}
	if d, ok := e.(Decorator); !ok || !d.Critical() {
		Te.Error("Decorated error lost its criticality")
	}
	//errors from v3 keep the decorations they get here
	_, verr := v3.NewMatrix([]float64{1})
	verr = ErrDecorate(ErrDecorate(verr, "XYZRead"), "ReadFile")
	if !strings.HasPrefix(verr.Error(), "ReadFile: XYZRead: NewMatrix: ") {
		Te.Errorf("Decorations of a v3 error lost: %q", verr.Error())
	}
	if ErrDecorate(nil, "x") != nil {
		Te.Error("Decorating nil should give nil")
	}
	sel := Selected(4, []int{1, 3, 7})
	if sel[0] || !sel[1] || !sel[3] {
		Te.Errorf("Wrong selection %v", sel)
	}
}

const dimerXYZ = `7
water and formaldehyde
O   0.000000   0.000000   0.117300
H   0.000000   0.757200  -0.469200
H   0.000000  -0.757200  -0.469200
O   0.000000   0.000000   2.900000
C   0.000000   0.000000   4.110000
H   0.000000   0.940000   4.690000
H   0.000000  -0.940000   4.690000
`

func TestMolecules(Te *testing.T) {
	top, coords, err := XYZRead(strings.NewReader(dimerXYZ))
	if err != nil {
		Te.Fatal(err)
	}
	bonds, err := AssignBonds(top, coords)
	if err != nil {
		Te.Fatal(err)
	}
	if len(bonds) != 5 {
		Te.Errorf("Expected 5 bonds, got %d: %v", len(bonds), bonds)
	}
	n, err := AssignMolecules(top, coords)
	if err != nil {
		Te.Fatal(err)
	}
	if n != 2 || Molecules(top) != 2 {
		Te.Fatalf("Expected 2 molecules, got %d", n)
	}
	for i, m := range []int{0, 0, 0, 1, 1, 1, 1} {
		if top.Atom(i).Molecule != m {
			Te.Errorf("Atom %d in molecule %d, expected %d", i, top.Atom(i).Molecule, m)
		}
	}
	if !top.Atom(1).Polar || top.Atom(5).Polar {
		Te.Error("Wrong polar hydrogens")
	}
	if !top.Atom(3).Carbonyl || top.Atom(0).Carbonyl {
		Te.Error("Wrong carbonyl oxygens")
	}
}
