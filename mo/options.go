/*
 * options.go, part of qfield.
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

package mo

import (
	"log"
	"runtime"

	"github.com/rmera/qfield/basis"
	"github.com/rmera/qfield/grid"
)

//Options contains the tunable parameters of an orbital calculation.
type Options struct {
	Range   float64           //capture radius around each atom, in Bohr.
	CPUs    int               //maximum number of orbitals computed at the same time by Orbitals.
	Disable []basis.ShellKind //shell kinds that will not be evaluated.
}

//DefaultOptions returns options with the usual 10 Bohr capture radius, all the
//logical CPUs, and all the supported shell kinds enabled.
func DefaultOptions() *Options {
	return &Options{
		Range: grid.DefaultRange,
		CPUs:  runtime.NumCPU(),
	}
}

//Check replaces out-of-range values with their defaults, logging each replacement.
func (O *Options) Check() {
	d := DefaultOptions()
	if O.Range <= 0 {
		log.Printf("qfield/mo: Invalid capture radius %g, will use %g", O.Range, d.Range)
		O.Range = d.Range
	}
	if O.CPUs <= 0 {
		log.Printf("qfield/mo: Invalid number of CPUs %d, will use %d", O.CPUs, d.CPUs)
		O.CPUs = d.CPUs
	}
	ok := O.Disable[:0]
	for _, k := range O.Disable {
		if !k.Valid() {
			log.Printf("qfield/mo: Ignoring request to disable an invalid shell kind %d", int(k))
			continue
		}
		ok = append(ok, k)
	}
	O.Disable = ok
}
