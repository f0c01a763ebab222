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

// Command colchem is a command-line interface for the colchem column
// aerosol microphysics and chemistry processes.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spatialmodel/colchem/colchemutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command line args and returns the process exit status.
func run(args []string, w io.Writer) int {
	colchemutil.Root.SetArgs(args)
	if err := colchemutil.Root.Execute(); err != nil {
		fmt.Fprintln(w, err)
		return 1
	}
	return 0
}
