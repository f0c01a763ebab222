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

// Package colchem advances the gas and aerosol tracers of atmosphere model
// columns through gas-phase chemistry, cloud chemistry, modal aerosol
// microphysics and linearized stratospheric ozone chemistry.
//
// A host model supplies the column state through a Fields registry and
// drives the Microphysics and Optics processes through their
// Configure, SetGrids, Initialize, Run and Finalize methods.
package colchem

// Version is the version of this package.
const Version = "0.1.0"
