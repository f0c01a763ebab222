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

package colchemutil

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/colchem"
	"github.com/spatialmodel/colchem/comm"
	"github.com/spatialmodel/colchem/science/photolysis"
)

// Run reads the column state file stateFile, advances it by steps time
// steps of dt seconds with the microphysics and optics processes and
// writes the result to outputFile.
func Run(log logrus.FieldLogger, cfg colchem.Config, stateFile, outputFile string, steps int, dt float64) error {
	startTime := time.Now()
	if steps < 1 {
		return fmt.Errorf("colchem: steps must be at least 1, not %d", steps)
	}

	g, err := colchem.ReadGrid(stateFile)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"columns": g.NumColumns,
		"levels":  g.NumLevels,
	}).Info("read grid")

	fields := colchem.NewFields(g)
	mp := &colchem.Microphysics{Log: log}
	optics := &colchem.Optics{Log: log}
	if err := mp.Configure(cfg); err != nil {
		return err
	}
	if err := mp.SetGrids(g, fields); err != nil {
		return err
	}
	if err := optics.SetGrids(g, fields); err != nil {
		return err
	}
	if err := colchem.ReadFields(stateFile, fields); err != nil {
		return err
	}
	if err := mp.Initialize(); err != nil {
		return err
	}
	if err := optics.Initialize(); err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		if err := mp.Run(dt); err != nil {
			return err
		}
		if err := optics.Run(dt); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"step":    mp.StepCounter,
			"elapsed": time.Since(startTime).String(),
		}).Info("completed step")
	}
	if err := mp.Finalize(); err != nil {
		return err
	}
	if err := optics.Finalize(); err != nil {
		return err
	}

	if err := colchem.WriteFields(outputFile, g, fields); err != nil {
		return err
	}
	log.WithField("file", outputFile).Infof("colchem completed in %v", time.Since(startTime))
	return nil
}

// Table builds the photolysis table on the given number of in-process
// workers and writes its dimensions and checksum to w. It returns an
// error if the workers do not end up with identical tables.
func Table(w io.Writer, cfg colchem.Config, workers int) error {
	if workers < 1 {
		return fmt.Errorf("colchem: workers must be at least 1, not %d", workers)
	}
	var comms []comm.Communicator
	if workers == 1 {
		comms = []comm.Communicator{comm.Serial{}}
	} else {
		for _, c := range comm.NewLocalGroup(workers) {
			comms = append(comms, c)
		}
	}
	tables := make([]*photolysis.Table, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i, c := range comms {
		go func(i int, c comm.Communicator) {
			defer wg.Done()
			tables[i], errs[i] = photolysis.Build(cfg.RSFFile, cfg.XSLongFile, c)
		}(i, c)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("colchem: worker %d: %w", i, err)
		}
	}
	sum := tables[0].Checksum()
	for i, t := range tables {
		if s := t.Checksum(); s != sum {
			return fmt.Errorf("colchem: worker %d table checksum %s differs from %s", i, s, sum)
		}
	}
	fmt.Fprintf(w, "photolysis table: %s\n", tables[0].Dims())
	fmt.Fprintf(w, "reactions: %v\n", photolysis.ReactionNames)
	fmt.Fprintf(w, "workers: %d\nchecksum: %s\n", workers, sum)
	fmt.Fprintf(w, "settings: %s\n", cfg.Fingerprint())
	return nil
}
