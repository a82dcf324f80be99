/*
 * tables.go, part of qfield.
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

//Promolecular density fits, rho(r) = sum_k c_k*exp(-r/z_k), r in Bohr, for elements 0 to 18.
//Element 0 (dummy atoms) has no density.
const maxZ = 18

var (
	coef1 = [maxZ + 1]float64{0, 0.2815, 2.437, 11.84, 31.34, 67.82, 120.2, 190.9, 289.5, 406.3, 561.3, 760.8, 1016., 1319., 1658., 2042., 2501., 3024., 3625.}
	coef2 = [maxZ + 1]float64{0, 0., 0., 0.06332, 0.3694, 0.8527, 1.172, 2.247, 2.879, 3.049, 6.984, 22.42, 37.17, 57.95, 87.16, 115.7, 158.0, 205.5, 260.0}
	coef3 = [maxZ + 1]float64{0, 0., 0., 0., 0., 0., 0., 0., 0., 0., 0., 0.06358, 0.3331, 0.8878, 0.7888, 1.465, 2.170, 3.369, 5.211}
	zeta1 = [maxZ + 1]float64{0, 0.5288, 0.3379, 0.1912, 0.1390, 0.1059, 0.0884, 0.0767, 0.0669, 0.0608, 0.0549, 0.0496, 0.0449, 0.0411, 0.0379, 0.0352, 0.0329, 0.0308, 0.0290}
	zeta2 = [maxZ + 1]float64{1, 1, 1, 0.9992, 0.6945, 0.5300, 0.5480, 0.4532, 0.3974, 0.3678, 0.3531, 0.2882, 0.2558, 0.2319, 0.2143, 0.1997, 0.1886, 0.1782, 0.1697}
	zeta3 = [maxZ + 1]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1.0236, 0.7753, 0.5962, 0.6995, 0.5851, 0.5149, 0.4974, 0.4616}
)

//Fit returns the coefficients and decay lengths of the promolecular density
//of the element with atomic number z, which must be in 0..18.
func Fit(z int) (c, zeta [3]float64) {
	return [3]float64{coef1[z], coef2[z], coef3[z]}, [3]float64{zeta1[z], zeta2[z], zeta3[z]}
}
