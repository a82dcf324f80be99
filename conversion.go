/*
 * conversion.go, part of qfield.
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

//This provides useful conversion factors and other constants

//Conversions
const (
	Bohr2A = 0.52918 //the Bohr radius in A, as used for the grids.
	A2Bohr = 1 / Bohr2A
	H2Kcal = 627.509 //Hartree to kcal/mol
	Kcal2H = 1 / 627.509
)

//A2BohrVec returns the vector v, given in A, in Bohr.
func A2BohrVec(v [3]float64) [3]float64 {
	return [3]float64{v[0] * A2Bohr, v[1] * A2Bohr, v[2] * A2Bohr}
}
