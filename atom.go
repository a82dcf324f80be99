/*
 * atom.go, part of qfield.
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
	"fmt"
	"strings"
)

//Atom contains the per-atom information the field engines need. Coordinates
//are not part of the atom, they are kept in a v3.Matrix.
type Atom struct {
	Name     string
	ID       int
	MolName  string //residue name, for PDB-like inputs
	MolID    int
	Molecule int //index of the molecule owning the atom. Only the NCI intra/inter classification uses it.
	Symbol   string
	Z        int
	Charge   float64 //partial or nuclear charge, as needed by the MEP.
	Aromatic bool
	Carbonyl bool
	Polar    bool //for hydrogens, bonded to N or O.
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	N := *A
	return &N
}

//FillZ sets the atomic number from the symbol, or the symbol from the atomic number,
//whichever is missing. It returns an error if neither can be obtained.
func (A *Atom) FillZ() error {
	if A.Z > 0 && A.Symbol == "" {
		s, err := ZSymbol(A.Z)
		if err != nil {
			return err
		}
		A.Symbol = s
		return nil
	}
	if A.Symbol == "" {
		return NewError(fmt.Sprintf("Atom %d (%s) has neither symbol nor atomic number", A.ID, A.Name), true, "FillZ")
	}
	z, err := SymbolZ(A.Symbol)
	if err != nil {
		return ErrDecorate(err, "FillZ")
	}
	if A.Z > 0 && A.Z != z {
		return NewError(fmt.Sprintf("Atom %d: symbol %s doesn't match atomic number %d", A.ID, A.Symbol, A.Z), true, "FillZ")
	}
	A.Z = z
	return nil
}

func (A *Atom) String() string {
	return fmt.Sprintf("%s %d %s %s%d", A.Symbol, A.ID, A.Name, strings.TrimSpace(A.MolName), A.MolID)
}

// Atomer is the basic interface for a set of atoms.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i
	//of the Atom slice in the Topology. Should panic if
	//out of range.
	Atom(i int) *Atom

	Len() int
}

/*****Topology type***/

//Topology is a plain list of atoms, it implements Atomer.
type Topology struct {
	Atoms []*Atom
}

//NewTopology returns a topology with the given atoms. It fills the atomic
//number or symbol of each atom, and returns an error if that fails for any of them.
func NewTopology(ats []*Atom) (*Topology, error) {
	if ats == nil {
		return nil, NewError("Supplied a nil atom slice", true, "NewTopology")
	}
	for i, v := range ats {
		if v == nil {
			return nil, NewError(fmt.Sprintf("Atom %d is nil", i), true, "NewTopology")
		}
		if err := v.FillZ(); err != nil {
			return nil, ErrDecorate(err, "NewTopology")
		}
	}
	return &Topology{Atoms: ats}, nil
}

//Atom returns the Atom corresponding to the index i
//of the Atom slice in the Topology. Panics if
//out of range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() || i < 0 {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

//Molecules returns the number of different molecule indexes in the
//atoms of mol. Molecule indexes are expected to go from 0 to Molecules()-1.
func Molecules(mol Atomer) int {
	max := -1
	for i := 0; i < mol.Len(); i++ {
		if m := mol.Atom(i).Molecule; m > max {
			max = m
		}
	}
	return max + 1
}

//Selected returns a slice of len n where the elements with
//the indexes in sel are true. A nil sel selects everything.
//Indexes out of range are ignored.
func Selected(n int, sel []int) []bool {
	ret := make([]bool, n)
	if sel == nil {
		for i := range ret {
			ret[i] = true
		}
		return ret
	}
	for _, v := range sel {
		if v >= 0 && v < n {
			ret[v] = true
		}
	}
	return ret
}
