/*
 * basis.go, part of qfield.
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

//Package basis describes the basis sets the orbital evaluator works with: shells of
//contracted Gaussian primitives, or Slater-type terms, and the cursor that walks the
//molecular orbital coefficients in shell order.
package basis

import (
	"fmt"
	"strings"

	"github.com/rmera/qfield"
)

//ShellKind is the angular type of a shell. The set is closed: every kind
//has a fixed number of components and a fixed canonical component order.
type ShellKind int

//Canonical component orders:
//
//	S:   s
//	P:   x y z
//	SP:  s x y z
//	D6:  xx yy zz xy xz yz
//	D5:  d0 d+1 d-1 d+2 d-2
//	F10: xxx yyy zzz xyy xxy xxz xzz yzz yyz xyz
//	F7:  f0 f+1 f-1 f+2 f-2 f+3 f-3
//	G15, G9: not evaluated.
const (
	S ShellKind = iota
	P
	SP
	D6
	D5
	F10
	F7
	G15
	G9
	nKinds
)

var kindNames = [nKinds]string{"S", "P", "SP", "D6", "D5", "F10", "F7", "G15", "G9"}
var kindComponents = [nKinds]int{1, 3, 4, 6, 5, 10, 7, 15, 9}
var kindL = [nKinds]int{0, 1, 1, 2, 2, 3, 3, 4, 4}

//Kinds returns all the shell kinds, in order.
func Kinds() []ShellKind {
	r := make([]ShellKind, nKinds)
	for i := range r {
		r[i] = ShellKind(i)
	}
	return r
}

//Valid returns true if k is one of the defined kinds.
func (k ShellKind) Valid() bool {
	return k >= 0 && k < nKinds
}

func (k ShellKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ShellKind(%d)", int(k))
	}
	return kindNames[k]
}

//Components returns the number of basis functions (and thus of MO coefficients) in
//a shell of kind k.
func (k ShellKind) Components() int {
	if !k.Valid() {
		panic("qfield/basis: invalid shell kind")
	}
	return kindComponents[k]
}

//L returns the angular momentum of the shell. For SP shells, it returns 1.
func (k ShellKind) L() int {
	if !k.Valid() {
		panic("qfield/basis: invalid shell kind")
	}
	return kindL[k]
}

//Spherical returns true for the pure (spherical harmonic) d, f and g kinds.
func (k ShellKind) Spherical() bool {
	return k == D5 || k == F7 || k == G9
}

//ParseShellKind returns the kind for the usual names found in QM program outputs:
//S, P, SP (or L), D (cartesian) 6D, 5D, F (cartesian), 10F, 7F, G (cartesian), 15G, 9G.
func ParseShellKind(s string) (ShellKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "S":
		return S, nil
	case "P":
		return P, nil
	case "SP", "L":
		return SP, nil
	case "D", "6D", "D6":
		return D6, nil
	case "5D", "D5":
		return D5, nil
	case "F", "10F", "F10":
		return F10, nil
	case "7F", "F7":
		return F7, nil
	case "G", "15G", "G15":
		return G15, nil
	case "9G", "G9":
		return G9, nil
	}
	return S, qfield.NewError(fmt.Sprintf("Unknown shell type %q", s), true, "ParseShellKind")
}

//Primitive is a Gaussian primitive. C2 is only used for the p part of SP shells.
type Primitive struct {
	Exp float64
	C1  float64
	C2  float64
}

//Shell is a contracted shell on an atom. Offset and N give the range of
//the shell's primitives in the primitive table of the basis.
type Shell struct {
	Atom   int
	Kind   ShellKind
	Offset int
	N      int
}

//SlaterTerm is a Slater-type function, coef*x^A*y^B*z^C*r^D*exp(-zeta*r).
//A==-2 stands for 2z^2-x^2-y^2 and B==-2 for x^2-y^2. A negative Zeta marks
//a contracted term, which shares the MO coefficient of the previous term.
type SlaterTerm struct {
	Atom       int
	A, B, C, D int
	Zeta       float64
	Coef       float64
}

//Contracted returns true if the term shares the coefficient of the previous one.
func (t SlaterTerm) Contracted() bool {
	return t.Zeta < 0
}

//Basis is a full basis set for a molecule. Either Shells (with Primitives) or
//Slaters should be given. Orders can contain, for each kind, the order of the
//components in the program that produced the MO coefficients (see Order).
type Basis struct {
	Shells     []Shell
	Primitives []Primitive
	Slaters    []SlaterTerm
	Orders     map[ShellKind][]int
}

//IsSlater returns true if the basis is made of Slater terms.
func (b *Basis) IsSlater() bool {
	return len(b.Shells) == 0 && len(b.Slaters) > 0
}

//Size returns the number of MO coefficients expected for the basis.
func (b *Basis) Size() int {
	if b.IsSlater() {
		n := 0
		for _, v := range b.Slaters {
			if !v.Contracted() {
				n++
			}
		}
		return n
	}
	n := 0
	for _, v := range b.Shells {
		n += v.Kind.Components()
	}
	return n
}

//ShellPrimitives returns a view of the primitives of shell s.
func (b *Basis) ShellPrimitives(s Shell) []Primitive {
	return b.Primitives[s.Offset : s.Offset+s.N]
}

//Order returns the component map for kind k. The ith canonical component of a shell
//is found at position Order(k)[i] of the shell's coefficients, as given by the
//source program. Kinds without an entry in b.Orders use the canonical order.
func (b *Basis) Order(k ShellKind) []int {
	if o, ok := b.Orders[k]; ok && o != nil {
		return o
	}
	return identity(k.Components())
}

//Check verifies the basis against a system with natoms atoms. It returns a critical
//error for any inconsistency.
func (b *Basis) Check(natoms int) error {
	if len(b.Shells) == 0 && len(b.Slaters) == 0 {
		return qfield.NewError("Empty basis", true, "Basis.Check")
	}
	if len(b.Shells) > 0 && len(b.Slaters) > 0 {
		return qfield.NewError("Basis mixes Gaussian shells and Slater terms", true, "Basis.Check")
	}
	for i, s := range b.Shells {
		if !s.Kind.Valid() {
			return qfield.NewError(fmt.Sprintf("Shell %d has an invalid kind %d", i, int(s.Kind)), true, "Basis.Check")
		}
		if s.Atom < 0 || s.Atom >= natoms {
			return qfield.NewError(fmt.Sprintf("Shell %d belongs to atom %d, but there are %d atoms", i, s.Atom, natoms), true, "Basis.Check")
		}
		if s.N <= 0 || s.Offset < 0 || s.Offset+s.N > len(b.Primitives) {
			return qfield.NewError(fmt.Sprintf("Shell %d points to primitives %d-%d, but there are %d", i, s.Offset, s.Offset+s.N, len(b.Primitives)), true, "Basis.Check")
		}
	}
	for i, t := range b.Slaters {
		if t.Atom < 0 || t.Atom >= natoms {
			return qfield.NewError(fmt.Sprintf("Slater term %d belongs to atom %d, but there are %d atoms", i, t.Atom, natoms), true, "Basis.Check")
		}
		if i == 0 && t.Contracted() {
			return qfield.NewError("The first Slater term can't be a contracted one", true, "Basis.Check")
		}
		if t.A < -2 || t.B < -2 || t.C < 0 || t.D < 0 || t.A == -1 || t.B == -1 {
			return qfield.NewError(fmt.Sprintf("Slater term %d has invalid exponents %d %d %d %d", i, t.A, t.B, t.C, t.D), true, "Basis.Check")
		}
	}
	for k, o := range b.Orders {
		if err := checkOrder(k, o); err != nil {
			return qfield.ErrDecorate(err, "Basis.Check")
		}
	}
	return nil
}

func checkOrder(k ShellKind, o []int) error {
	if !k.Valid() {
		return qfield.NewError(fmt.Sprintf("Component order given for invalid kind %d", int(k)), true, "checkOrder")
	}
	if len(o) != k.Components() {
		return qfield.NewError(fmt.Sprintf("Component order for %s has %d elements, expected %d", k, len(o), k.Components()), true, "checkOrder")
	}
	seen := make([]bool, len(o))
	for _, v := range o {
		if v < 0 || v >= len(o) || seen[v] {
			return qfield.NewError(fmt.Sprintf("Component order for %s is not a permutation: %v", k, o), true, "checkOrder")
		}
		seen[v] = true
	}
	return nil
}

func identity(n int) []int {
	r := make([]int, n)
	for i := range r {
		r[i] = i
	}
	return r
}
