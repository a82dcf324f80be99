/*
 * bonds.go, part of qfield.
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
	"math"
	"sort"

	"github.com/rmera/qfield/v3"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

const (
	tooclose = 0.63
	bondtol  = 0.45
)

//Bond is a covalent bond between the atoms with indexes I and J.
type Bond struct {
	I, J int
	Dist float64
}

//Cross returns the index of the atom bonded to i through the bond.
func (B Bond) Cross(i int) int {
	if B.I == i {
		return B.J
	}
	return B.I
}

//AssignBonds finds the covalent bonds in mol based on a simple distance
//criterium, similar to that described in DOI:10.1186/1758-2946-3-33.
//Hydrogens keep only their shortest bond. Coordinates are in A.
func AssignBonds(mol Atomer, coords *v3.Matrix) ([]Bond, error) {
	//might get slow for large systems. It's really not thought
	//for proteins or macromolecules.
	tot := mol.Len()
	if coords.NVecs() != tot {
		return nil, NewError(fmt.Sprintf("%d atoms but %d coordinates", tot, coords.NVecs()), true, "AssignBonds")
	}
	var bonds []Bond
	for i := 0; i < tot; i++ {
		cov1 := Covrad(mol.Atom(i).Symbol)
		if cov1 == 0 {
			return nil, NewError(fmt.Sprintf("Couldn't find the covalent radius for %s %d", mol.Atom(i).Symbol, i), true, "AssignBonds")
		}
		c1 := coords.Vec3(i)
		for j := i + 1; j < tot; j++ {
			cov2 := Covrad(mol.Atom(j).Symbol)
			if cov2 == 0 {
				return nil, NewError(fmt.Sprintf("Couldn't find the covalent radius for %s %d", mol.Atom(j).Symbol, j), true, "AssignBonds")
			}
			c2 := coords.Vec3(j)
			d := math.Sqrt((c2[0]-c1[0])*(c2[0]-c1[0]) + (c2[1]-c1[1])*(c2[1]-c1[1]) + (c2[2]-c1[2])*(c2[2]-c1[2]))
			if d < cov1+cov2+bondtol && d > tooclose {
				bonds = append(bonds, Bond{I: i, J: j, Dist: d})
			}
		}
	}
	//Now the hydrogens lose all but their shortest bond.
	best := make(map[int]int) //hydrogen index to the index of its shortest bond
	for k, b := range bonds {
		for _, i := range [2]int{b.I, b.J} {
			if mol.Atom(i).Z != 1 {
				continue
			}
			if p, ok := best[i]; !ok || bonds[p].Dist > b.Dist {
				best[i] = k
			}
		}
	}
	ret := bonds[:0]
	for k, b := range bonds {
		keep := true
		for _, i := range [2]int{b.I, b.J} {
			if p, ok := best[i]; ok && p != k {
				keep = false
			}
		}
		if keep {
			ret = append(ret, b)
		}
	}
	return ret, nil
}

//AssignMolecules sets the Molecule index of each atom in mol to the connected component of
//the bond graph it belongs to, and returns the number of molecules. Molecules are numbered
//in the order of their first atom.
//It also sets the Polar flag of hydrogens bonded to N or O, and the Carbonyl flag of
//oxygens bonded only to one carbon.
func AssignMolecules(mol Atomer, coords *v3.Matrix) (int, error) {
	bonds, err := AssignBonds(mol, coords)
	if err != nil {
		return 0, ErrDecorate(err, "AssignMolecules")
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < mol.Len(); i++ {
		g.AddNode(simple.Node(i))
	}
	nbonds := make([][]int, mol.Len())
	for _, b := range bonds {
		g.SetEdge(g.NewEdge(simple.Node(b.I), simple.Node(b.J)))
		nbonds[b.I] = append(nbonds[b.I], b.J)
		nbonds[b.J] = append(nbonds[b.J], b.I)
	}
	comps := topo.ConnectedComponents(g)
	first := make([][]int, len(comps))
	for i, c := range comps {
		for _, n := range c {
			first[i] = append(first[i], int(n.ID()))
		}
		sort.Ints(first[i])
	}
	sort.Slice(first, func(i, j int) bool { return first[i][0] < first[j][0] })
	for m, c := range first {
		for _, i := range c {
			mol.Atom(i).Molecule = m
		}
	}
	for i, nb := range nbonds {
		at := mol.Atom(i)
		switch at.Z {
		case 1:
			if len(nb) == 1 {
				z := mol.Atom(nb[0]).Z
				at.Polar = z == 7 || z == 8
			}
		case 8:
			at.Carbonyl = len(nb) == 1 && mol.Atom(nb[0]).Z == 6
		}
	}
	return len(first), nil
}
