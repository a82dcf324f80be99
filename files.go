/*
 * files.go, part of qfield.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmera/qfield/v3"
)

//This tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements.
func symbolFromName(name string) (string, error) {
	symbol := ""
	if name == "" {
		return "", fmt.Errorf("Empty PDB name")
	}
	switch {
	case len(name) == 4 || name[0] == 'H': //I thiiink only Hs can have 4-char names in amber.
		symbol = "H"
	case name[0] == 'C': //Ca is not considered here
		switch name {
		case "CU":
			symbol = "Cu"
		case "CO":
			symbol = "Co"
		case "CL":
			symbol = "Cl"
		default:
			symbol = "C"
		}
	case name[0] == 'N':
		symbol = "N"
		if name == "NA" {
			symbol = "Na"
		}
	case name[0] == 'O':
		symbol = "O"
	case name[0] == 'P':
		symbol = "P"
	case name[0] == 'S':
		symbol = "S"
		if name == "SE" {
			symbol = "Se"
		}
	case strings.HasPrefix(name, "ZN"):
		symbol = "Zn"
	case strings.HasPrefix(name, "FE"):
		symbol = "Fe"
	}
	if symbol == "" {
		return symbol, fmt.Errorf("Couldn't guess symbol from PDB name %s", name)
	}
	return symbol, nil
}

//field returns the trimmed columns [i,j) of line, or the empty string if the line is too short.
func field(line string, i, j int) string {
	if len(line) <= i {
		return ""
	}
	if len(line) < j {
		j = len(line)
	}
	return strings.TrimSpace(line[i:j])
}

//Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
//object with the info except for the coordinates, which  are returned
//separately.
func readPDBLine(line string, nline int) (*Atom, [3]float64, error) {
	var c [3]float64
	if len(line) < 54 {
		return nil, c, NewError(fmt.Sprintf("Line %d is too short", nline), true, "readPDBLine")
	}
	var err error
	atom := new(Atom)
	atom.ID, err = strconv.Atoi(field(line, 6, 11))
	if err != nil {
		return nil, c, NewError(fmt.Sprintf("Line %d: wrong atom number: %s", nline, err), true, "readPDBLine")
	}
	atom.Name = field(line, 12, 16)
	atom.MolName = field(line, 17, 20)
	atom.MolID, err = strconv.Atoi(field(line, 22, 26))
	if err != nil {
		return nil, c, NewError(fmt.Sprintf("Line %d: wrong residue number: %s", nline, err), true, "readPDBLine")
	}
	for i := range c {
		c[i], err = strconv.ParseFloat(field(line, 30+8*i, 38+8*i), 64)
		if err != nil {
			return nil, c, NewError(fmt.Sprintf("Line %d: wrong coordinate: %s", nline, err), true, "readPDBLine")
		}
	}
	//the element column is optional. If it's not there, we guess from the name.
	atom.Symbol = field(line, 76, 78)
	if ch := field(line, 78, 80); ch != "" {
		//charges come as 1-, 2+, etc.
		q, err := strconv.ParseFloat(strings.TrimRight(strings.TrimRight(ch, "+"), "-"), 64)
		if err == nil {
			if strings.HasSuffix(ch, "-") {
				q = -q
			}
			atom.Charge = q
		}
	}
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name)
	}
	return atom, c, nil
}

//PDBRead reads the atoms in the first model of the PDB data in r. Atoms get
//their names, residue names and numbers, symbols (from the element column or
//guessed from the name) and formal charges. Each chain is considered a different
//molecule.
func PDBRead(r io.Reader) (*Topology, *v3.Matrix, error) {
	pdb := bufio.NewReader(r)
	var atoms []*Atom
	var coords []float64
	chains := make(map[string]int)
	nline := 0
	for {
		line, err := pdb.ReadString('\n')
		nline++
		if strings.HasPrefix(line, "ENDMDL") || strings.HasPrefix(line, "END ") || strings.TrimSpace(line) == "END" {
			break
		}
		if strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM") {
			at, c, err2 := readPDBLine(strings.TrimRight(line, "\r\n"), nline)
			if err2 != nil {
				return nil, nil, ErrDecorate(err2, "PDBRead")
			}
			chain := field(line, 21, 22)
			if _, ok := chains[chain]; !ok {
				chains[chain] = len(chains)
			}
			at.Molecule = chains[chain]
			atoms = append(atoms, at)
			coords = append(coords, c[:]...)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, NewError(err.Error(), true, "PDBRead")
		}
	}
	return finishRead(atoms, coords, "PDBRead")
}

//XYZRead reads the xyz data in r, and returns the atoms and their coordinates.
//Only the first frame is read.
func XYZRead(r io.Reader) (*Topology, *v3.Matrix, error) {
	xyz := bufio.NewReader(r)
	line, err := xyz.ReadString('\n')
	if err != nil && line == "" {
		return nil, nil, NewError("Ill formatted XYZ file", true, "XYZRead")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, nil, NewError("Ill formatted XYZ file: wrong number of atoms", true, "XYZRead")
	}
	if _, err := xyz.ReadString('\n'); err != nil {
		return nil, nil, NewError("Ill formatted XYZ file: no comment line", true, "XYZRead")
	}
	atoms := make([]*Atom, natoms)
	coords := make([]float64, natoms*3)
	for i := 0; i < natoms; i++ {
		line, err := xyz.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, nil, NewError(fmt.Sprintf("Expected %d atoms, got %d", natoms, i), true, "XYZRead")
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, nil, NewError(fmt.Sprintf("Atom line %d ill formed", i+1), true, "XYZRead")
		}
		atoms[i] = &Atom{ID: i + 1, Symbol: fields[0]}
		for j := 0; j < 3; j++ {
			coords[i*3+j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, nil, NewError(fmt.Sprintf("Atom line %d: %s", i+1, err), true, "XYZRead")
			}
		}
	}
	return finishRead(atoms, coords, "XYZRead")
}

func finishRead(atoms []*Atom, coords []float64, caller string) (*Topology, *v3.Matrix, error) {
	if len(atoms) == 0 {
		return nil, nil, NewError("No atoms read", true, caller)
	}
	top, err := NewTopology(atoms)
	if err != nil {
		return nil, nil, ErrDecorate(err, caller)
	}
	m, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, nil, NewError(err.Error(), true, caller)
	}
	return top, m, nil
}

//ReadFile reads a geometry from an xyz or pdb file, depending on the extension of name.
func ReadFile(name string) (*Topology, *v3.Matrix, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, NewError(err.Error(), true, "ReadFile")
	}
	defer f.Close()
	var top *Topology
	var coords *v3.Matrix
	switch l := strings.ToLower(name); {
	case strings.HasSuffix(l, ".pdb"):
		top, coords, err = PDBRead(f)
	case strings.HasSuffix(l, ".xyz"):
		top, coords, err = XYZRead(f)
	default:
		return nil, nil, NewError("Unknown format for "+name, true, "ReadFile")
	}
	return top, coords, ErrDecorate(err, "ReadFile "+name)
}
