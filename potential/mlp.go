/*
 * mlp.go, part of qfield.
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

package potential

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
	"github.com/rmera/qfield/v3"
)

//Atomic lipophilicity contributions, by element and context. ".ar" is aromatic, ".co" carbonyl
//or carboxyl, and "H.pol" a hydrogen bonded to N or O.
var mlpTable = map[string]float64{
	"C":     0.29,
	"C.ar":  0.26,
	"C.co":  -0.10,
	"O":     -0.34,
	"O.co":  -0.27,
	"N":     -0.60,
	"N.ar":  -0.46,
	"S":     0.62,
	"H":     0.12,
	"H.pol": -0.29,
	"F":     0.42,
	"Cl":    0.66,
	"Br":    0.86,
	"I":     1.16,
	"P":     -0.13,
}

//Side chain atoms of the standard residues, by context.
var (
	aromaticNames = map[string][]string{
		"PHE": {"CG", "CD1", "CD2", "CE1", "CE2", "CZ"},
		"TYR": {"CG", "CD1", "CD2", "CE1", "CE2", "CZ"},
		"TRP": {"CG", "CD1", "CD2", "NE1", "CE2", "CE3", "CZ2", "CZ3", "CH2"},
		"HIS": {"CG", "ND1", "CD2", "CE1", "NE2"},
	}
	carbonylNames = map[string][]string{
		"ASP": {"CG", "OD1", "OD2"},
		"GLU": {"CD", "OE1", "OE2"},
		"ASN": {"CG", "OD1"},
		"GLN": {"CD", "OE1"},
	}
	polarHeavy = map[string][]string{
		"SER": {"OG"},
		"THR": {"OG1"},
		"TYR": {"OH"},
		"TRP": {"NE1"},
		"HIS": {"ND1", "NE2"},
		"LYS": {"NZ"},
		"ARG": {"NE", "NH1", "NH2"},
		"ASN": {"ND2"},
		"GLN": {"NE2"},
		"ASP": {"OD1", "OD2"},
		"GLU": {"OE1", "OE2"},
	}
	backboneCarbonyl = []string{"C", "O", "OXT"}
	backbonePolarH   = []string{"H", "HN", "H1", "H2", "H3"}
	aminoacids       = []string{"ALA", "ARG", "ASN", "ASP", "CYS", "GLN", "GLU", "GLY", "HIS", "ILE", "LEU", "LYS", "MET", "PHE", "PRO", "SER", "THR", "TRP", "TYR", "VAL", "HID", "HIE", "HIP", "CYX"}
)

func in(s string, list []string) bool {
	for _, v := range list {
		if s == v {
			return true
		}
	}
	return false
}

//polarHName returns true if the hydrogen named name, in residue res, is bonded to one of
//the N or O atoms of the residue, following the PDB naming, where the name of a hydrogen
//repeats the remoteness and branch of its heavy atom (HE21 for NE2, HZ1 for NZ).
func polarHName(name, res string) bool {
	if in(name, backbonePolarH) && in(res, aminoacids) {
		return true
	}
	heavy, ok := polarHeavy[res]
	if !ok || len(name) < 2 {
		return false
	}
	rest := name[1:]
	for _, cand := range []string{rest, rest[:len(rest)-1], rest[:1]} {
		if cand == "" {
			continue
		}
		if in("N"+cand, heavy) || in("O"+cand, heavy) {
			return true
		}
	}
	return false
}

//MLPContext returns the key of the lipophilicity table for the atom at: its element symbol,
//refined with ".ar", ".co" or ".pol". The Aromatic, Carbonyl and Polar flags of the atom take
//precedence; if none is set, the PDB atom and residue names are used.
func MLPContext(at *qfield.Atom) string {
	sym := at.Symbol
	if sym == "" && at.Z > 0 {
		sym, _ = qfield.ZSymbol(at.Z)
	}
	if len(sym) > 1 {
		sym = strings.ToUpper(sym[:1]) + strings.ToLower(sym[1:])
	} else {
		sym = strings.ToUpper(sym)
	}
	name := strings.ToUpper(strings.TrimSpace(at.Name))
	res := strings.ToUpper(strings.TrimSpace(at.MolName))
	//the backbone names only mean something in a protein
	bb := in(res, aminoacids)
	switch sym {
	case "C":
		if at.Aromatic || in(name, aromaticNames[res]) {
			return "C.ar"
		}
		if at.Carbonyl || (bb && name == "C") || in(name, carbonylNames[res]) {
			return "C.co"
		}
	case "O":
		if at.Carbonyl || (bb && in(name, backboneCarbonyl)) || in(name, carbonylNames[res]) {
			return "O.co"
		}
	case "N":
		if at.Aromatic || in(name, aromaticNames[res]) {
			return "N.ar"
		}
	case "H":
		if at.Polar || polarHName(name, res) {
			return "H.pol"
		}
	}
	return sym
}

var unknownMLP sync.Map

//MLPContribution returns the lipophilicity contribution of the atom at. Elements not in the table
//contribute nothing; that is logged once per element.
func MLPContribution(at *qfield.Atom) float64 {
	key := MLPContext(at)
	v, ok := mlpTable[key]
	if !ok {
		if _, seen := unknownMLP.LoadOrStore(key, true); !seen {
			log.Printf("qfield/potential: No lipophilicity contribution for %q, will use 0", key)
		}
	}
	return v
}

//MLP is a molecular lipophilicity potential.
type MLP struct {
	Mode  Mode
	Range float64 //atoms farther than this (A) from a point are ignored. 0 means no limit.
}

//NewMLP returns an MLP with exp(-d) decay and an 8 A range.
func NewMLP() *MLP {
	return &MLP{Mode: EMinusD, Range: 8}
}

//Check replaces invalid values with the defaults.
func (M *MLP) Check() {
	if M.Mode < OneOverD || M.Mode > EMinusD {
		log.Printf("qfield/potential: Invalid MLP mode %d, will use %s", int(M.Mode), EMinusD)
		M.Mode = EMinusD
	}
	if M.Range < 0 {
		log.Printf("qfield/potential: Invalid MLP range %g, will use 8", M.Range)
		M.Range = 8
	}
}

func (M *MLP) weighted(mol qfield.Atomer, coords *v3.Matrix, selection []int) (*weighted, error) {
	M.Check()
	return newWeighted(mol.Len(), coords, selection, func(i int) float64 { return MLPContribution(mol.Atom(i)) })
}

//Grid puts in vol the MLP of the selected atoms of mol (all, if selection is nil), with coordinates
//coords, on the grid spec.
func (M *MLP) Grid(ctx context.Context, mol qfield.Atomer, coords *v3.Matrix, selection []int, spec grid.Spec, vol *grid.Volume) error {
	w, err := M.weighted(mol, coords, selection)
	if err != nil {
		return qfield.ErrDecorate(err, "MLP.Grid")
	}
	return qfield.ErrDecorate(w.grid(ctx, M.Mode, M.Range, spec, vol), "MLP.Grid")
}

//Points returns the MLP at each of the points (A).
func (M *MLP) Points(mol qfield.Atomer, coords *v3.Matrix, selection []int, points *v3.Matrix) ([]float64, error) {
	w, err := M.weighted(mol, coords, selection)
	if err != nil {
		return nil, qfield.ErrDecorate(err, "MLP.Points")
	}
	return w.points(M.Mode, M.Range, points), nil
}
