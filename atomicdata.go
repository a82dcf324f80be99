/*
 * atomicdata.go, part of qfield.
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

//Element symbols, indexed by atomic number. Up to Xe, which covers
//everything the basis sets we deal with are likely to include.
var zSymbol = [...]string{
	"X",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
}

//A map for assigning atomic numbers to elements.
var symbolZ = func() map[string]int {
	m := make(map[string]int, len(zSymbol))
	for i, v := range zSymbol {
		if i == 0 {
			continue
		}
		m[v] = i
	}
	return m
}()

//SymbolZ returns the atomic number for an element symbol. The symbol
//is not case sensitive.
func SymbolZ(symbol string) (int, error) {
	s := strings.TrimSpace(symbol)
	if len(s) > 1 {
		s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	} else {
		s = strings.ToUpper(s)
	}
	z, ok := symbolZ[s]
	if !ok {
		return 0, NewError(fmt.Sprintf("Unknown element symbol %q", symbol), true, "SymbolZ")
	}
	return z, nil
}

//ZSymbol returns the element symbol for the atomic number z.
func ZSymbol(z int) (string, error) {
	if z <= 0 || z >= len(zSymbol) {
		return "", NewError(fmt.Sprintf("No element with atomic number %d", z), true, "ZSymbol")
	}
	return zSymbol[z], nil
}

//A map for assigning covalent radii (A) to elements.
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.4,  //0.31, but H keeps only its shortest bond anyway.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  //hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"B":  0.84,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//Covrad returns the covalent radius of the element with the given symbol, in A, or 0
//if it's not known.
func Covrad(symbol string) float64 {
	return symbolCovrad[symbol]
}
