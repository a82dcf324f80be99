/*
 * orders.go, part of qfield.
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

package basis

//Component orders used by some QM programs, relative to the canonical
//order. Programs following the canonical order (Gaussian and Molden-like outputs)
//need no map at all.

//Alphabetical returns the maps for programs that list the cartesian components in
//alphabetical order (xx xy xz yy yz zz, and xxx xxy xxz xyy xyz xzz yyy yyz yzz zzz).
func Alphabetical() map[ShellKind][]int {
	return map[ShellKind][]int{
		D6:  {0, 3, 5, 1, 2, 4},
		F10: {0, 6, 9, 3, 1, 2, 5, 8, 7, 4},
	}
}

//MOrdered returns the maps for programs that list the spherical components
//from m=-l to m=+l.
func MOrdered() map[ShellKind][]int {
	return map[ShellKind][]int{
		D5: {2, 3, 1, 4, 0},
		F7: {3, 4, 2, 5, 1, 6, 0},
	}
}

//Orders returns the component maps with the given name: "canonical" (or "gaussian",
//"molden", the empty string), "alphabetical", "m" (spherical components from -l to +l),
//or "alphabetical+m". The second return value is false for unknown names.
func Orders(name string) (map[ShellKind][]int, bool) {
	switch name {
	case "", "canonical", "gaussian", "molden":
		return nil, true
	case "alphabetical":
		return Alphabetical(), true
	case "m":
		return MOrdered(), true
	case "alphabetical+m":
		r := Alphabetical()
		for k, v := range MOrdered() {
			r[k] = v
		}
		return r, true
	}
	return nil, false
}
