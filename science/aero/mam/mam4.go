/*
Copyright © 2024 the colchem authors.
This file is part of colchem.

colchem is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

colchem is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with colchem.  If not, see <http://www.gnu.org/licenses/>.
*/

package mam

// mam4 is the four-mode aerosol description: accumulation, Aitken,
// coarse and primary carbon.
const mam4 = `
[[gas]]
name = "O3"
molar_mass = 47.9982

[[gas]]
name = "H2O2"
molar_mass = 34.0136

[[gas]]
name = "H2SO4"
molar_mass = 98.0784

[[gas]]
name = "SO2"
molar_mass = 64.0648

[[gas]]
name = "DMS"
molar_mass = 62.1324

[[gas]]
name = "SOAG"
molar_mass = 12.011

[[species]]
name = "so4"
molar_mass = 115.0
density = 1770.0
hygroscopicity = 0.507

[[species]]
name = "pom"
molar_mass = 12.011
density = 1000.0
hygroscopicity = 1.0e-10

[[species]]
name = "soa"
molar_mass = 12.011
density = 1000.0
hygroscopicity = 0.1

[[species]]
name = "bc"
molar_mass = 12.011
density = 1700.0
hygroscopicity = 1.0e-10

[[species]]
name = "dst"
molar_mass = 135.065
density = 2600.0
hygroscopicity = 0.068

[[species]]
name = "ncl"
molar_mass = 58.4425
density = 1900.0
hygroscopicity = 1.16

[[species]]
name = "mom"
molar_mass = 250092.672
density = 1601.0
hygroscopicity = 0.1

[[mode]]
name = "accumulation"
suffix = "1"
species = ["so4", "pom", "soa", "bc", "dst", "ncl", "mom"]
sigmag = 1.8
dgnum = 1.1e-7
dgnum_lo = 5.35e-8
dgnum_hi = 4.4e-7
rh_crystal = 0.35
rh_deliques = 0.8

[[mode]]
name = "aitken"
suffix = "2"
species = ["so4", "soa", "ncl", "mom"]
sigmag = 1.6
dgnum = 2.6e-8
dgnum_lo = 8.7e-9
dgnum_hi = 5.2e-8
rh_crystal = 0.35
rh_deliques = 0.8

[[mode]]
name = "coarse"
suffix = "3"
species = ["dst", "ncl", "so4", "bc", "pom", "soa", "mom"]
sigmag = 1.8
dgnum = 2.0e-6
dgnum_lo = 1.0e-6
dgnum_hi = 4.0e-6
rh_crystal = 0.35
rh_deliques = 0.8

[[mode]]
name = "primary_carbon"
suffix = "4"
species = ["pom", "bc", "mom"]
sigmag = 1.6
dgnum = 5.0e-8
dgnum_lo = 1.0e-8
dgnum_hi = 1.0e-6
rh_crystal = 0.35
rh_deliques = 0.8
`
