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

package nci

import (
	"fmt"
	"log"
	"strings"

	"github.com/rmera/qfield"
	"github.com/rmera/qfield/grid"
)

//Type selects which voxels get a value, according to whether their density is
//dominated by a single molecule (intramolecular) or not (intermolecular).
type Type int

const (
	All Type = iota
	Intra
	Inter
)

func (t Type) String() string {
	switch t {
	case All:
		return "all"
	case Intra:
		return "intra"
	case Inter:
		return "inter"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

//ParseType returns the Type for "all", "intra" or "inter" (case-insensitive, the
//empty string means "all").
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "intra", "intramolecular":
		return Intra, nil
	case "inter", "intermolecular":
		return Inter, nil
	}
	return All, qfield.NewError(fmt.Sprintf("Unknown NCI type %q", s), true, "ParseType")
}

//Options for the NCI calculations.
type Options struct {
	Cutoff        float64      //voxels with a density above this (au) get NoValue.
	Type          Type         //which voxels get a value.
	IntraFraction float64      //fraction of the density a molecule must carry for a voxel to be intramolecular.
	DataScaling   float64      //factor applied to the densities read in SCF mode.
	Range         float64      //capture radius around each atom, in Bohr, for the promolecular density.
	Color         *grid.Volume //if not nil, receives sign(lambda2)*rho for each voxel with a value, 0 elsewhere.
}

//DefaultOptions returns the usual NCIPLOT-like options: a 0.05 au cutoff, all voxels,
//a 0.95 intramolecular fraction, unscaled densities and a 10 Bohr capture radius.
func DefaultOptions() *Options {
	return &Options{
		Cutoff:        0.05,
		Type:          All,
		IntraFraction: 0.95,
		DataScaling:   1,
		Range:         grid.DefaultRange,
	}
}

//NCIPLOTScaling is the DataScaling needed for the density cubes written by NCIPLOT.
const NCIPLOTScaling = 0.01

//Check replaces zero or out-of-range values with the defaults, logging each replacement.
func (O *Options) Check() {
	d := DefaultOptions()
	if O.Cutoff <= 0 {
		log.Printf("qfield/nci: Invalid density cutoff %g, will use %g", O.Cutoff, d.Cutoff)
		O.Cutoff = d.Cutoff
	}
	if O.Type < All || O.Type > Inter {
		log.Printf("qfield/nci: Invalid type %d, will use %s", int(O.Type), d.Type)
		O.Type = d.Type
	}
	if O.IntraFraction <= 0 || O.IntraFraction > 1 {
		log.Printf("qfield/nci: Invalid intramolecular fraction %g, will use %g", O.IntraFraction, d.IntraFraction)
		O.IntraFraction = d.IntraFraction
	}
	if O.DataScaling <= 0 {
		log.Printf("qfield/nci: Invalid data scaling %g, will use %g", O.DataScaling, d.DataScaling)
		O.DataScaling = d.DataScaling
	}
	if O.Range <= 0 {
		log.Printf("qfield/nci: Invalid capture radius %g, will use %g", O.Range, d.Range)
		O.Range = d.Range
	}
}
