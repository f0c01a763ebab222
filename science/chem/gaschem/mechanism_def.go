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

package gaschem

// mechanism is the built-in gas-phase mechanism for sulfur and
// peroxide chemistry with prescribed oxidants. Ozone is handled by the
// linearized stratospheric scheme.
const mechanism = `
solve = ["H2O2", "H2SO4", "SO2", "DMS", "SOAG"]

[[reaction]]
name = "jh2o2"
kind = "photolysis"
reactants = ["H2O2"]
products = ["OH", "OH"]

[[reaction]]
name = "usr_HO2_HO2"
kind = "usr_HO2_HO2"
reactants = ["HO2", "HO2"]
products = ["H2O2"]

[[reaction]]
name = "usr_SO2_OH"
kind = "usr_SO2_OH"
reactants = ["SO2", "OH"]
products = ["H2SO4"]

[[reaction]]
name = "usr_DMS_OH"
kind = "usr_DMS_OH"
reactants = ["DMS", "OH"]
products = ["SO2"]

[[reaction]]
name = "DMS_NO3"
kind = "arrhenius"
a = 1.9e-13
e = 520.0
reactants = ["DMS", "NO3"]
products = ["SO2"]

[[reaction]]
name = "H2O2_OH"
kind = "arrhenius"
a = 2.9e-12
e = -160.0
reactants = ["H2O2", "OH"]
products = ["HO2", "H2O"]

[[forcing]]
species = "SO2"

[[forcing]]
species = "so4_a1"

[[forcing]]
species = "so4_a2"

[[forcing]]
species = "pom_a4"

[[forcing]]
species = "bc_a4"

[[forcing]]
species = "num_a1"
number = true

[[forcing]]
species = "num_a2"
number = true

[[forcing]]
species = "num_a4"
number = true
`
