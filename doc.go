/*
 * doc.go, part of qfield.
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

/*Package qfield is the main package of the qfield library. It provides the atom structures,
element tables, unit conversions and errors shared by the volumetric field engines in its
subpackages.

	**qfield Capabilities**

    Evaluates molecular orbitals, |psi|^2 and electron densities on axis-aligned grids
	from contracted Gaussian shells (S, SP, P, 6D, 5D, 10F, 7F) or Slater-type terms
	(package mo).

    Computes promolecular and SCF (finite-difference) NCI reduced density gradient
	fields, signed by the second eigenvalue of the density Hessian, with optional
	intra/intermolecular filtering (package nci).

    Computes molecular electrostatic (MEP) and lipophilicity (MLP) potentials on grids
	and on arbitrary points, such as the vertices of a surface (package potential).

    Reads and writes Gaussian cube files, optionally zstd-compressed (package cube).

    Plots and exports the NCI s vs sign(lambda2)rho fingerprint (package nciplot).

    Runs all of the above from YAML job files (package job and the qfield command).

All the engines work internally in atomic units (Bohr). Coordinates are given in
Angstroms, as a v3.Matrix, and converted once per calculation.

The engines are synchronous and CPU-bound. They never share mutable state between
calculations, so independent grids can be computed concurrently.
*/
package qfield
