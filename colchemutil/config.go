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
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/colchem"
	"github.com/spf13/cast"
)

// ProcessConfig builds the microphysics process settings from cfg and
// checks them. The configuration file named by the "config" key, if any,
// is decoded first; values from flags and environment variables are then
// applied on top. Settings missing from cfg keep their default values.
func ProcessConfig(cfg *viper.Viper) (colchem.Config, error) {
	c := colchem.DefaultConfig()
	if path := cfg.GetString("config"); path != "" {
		f, err := os.Open(os.ExpandEnv(path))
		if err != nil {
			return c, fmt.Errorf("colchem: problem reading configuration file: %v", err)
		}
		c, err = colchem.ReadConfig(f)
		f.Close()
		if err != nil {
			return c, err
		}
	}
	var errs []string
	setBool := func(key string, dst *bool) {
		if cfg.Get(key) == nil {
			return
		}
		v, err := cast.ToBoolE(cfg.Get(key))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = v
	}
	setInt := func(key string, dst *int) {
		if cfg.Get(key) == nil {
			return
		}
		v, err := cast.ToIntE(cfg.Get(key))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = v
	}
	setFloat := func(key string, dst *float64) {
		if cfg.Get(key) == nil {
			return
		}
		v, err := cast.ToFloat64E(cfg.Get(key))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = v
	}
	setPath := func(key string, dst *string) {
		if cfg.Get(key) == nil {
			return
		}
		*dst = os.ExpandEnv(cast.ToString(cfg.Get(key)))
	}

	setBool("DoGasChem", &c.DoGasChem)
	setBool("DoAqueousChem", &c.DoAqueousChem)
	setBool("DoLinoz", &c.DoLinoz)
	setPath("RSFFile", &c.RSFFile)
	setPath("XSLongFile", &c.XSLongFile)
	setPath("ChlorineLoadingFile", &c.ChlorineLoadingFile)

	setBool("Microphysics.DoCond", &c.Microphysics.DoCond)
	setBool("Microphysics.DoRename", &c.Microphysics.DoRename)
	setBool("Microphysics.DoNewnuc", &c.Microphysics.DoNewnuc)
	setBool("Microphysics.DoCoag", &c.Microphysics.DoCoag)
	setInt("Microphysics.CoagInterval", &c.Microphysics.CoagInterval)
	setInt("Microphysics.GaexchH2SO4UptakeOptaa", &c.Microphysics.GaexchH2SO4UptakeOptaa)
	setInt("Microphysics.NewnucH2SO4ConcOptaa", &c.Microphysics.NewnucH2SO4ConcOptaa)

	n := &c.Microphysics.Nucleation
	setInt("Microphysics.Nucleation.NewnucMethodUserChoice", &n.NewnucMethodUserChoice)
	setInt("Microphysics.Nucleation.PBLNucWang2008UserChoice", &n.PBLNucWang2008UserChoice)
	setFloat("Microphysics.Nucleation.DensSO4aHost", &n.DensSO4aHost)
	setFloat("Microphysics.Nucleation.MWSO4aHost", &n.MWSO4aHost)
	setFloat("Microphysics.Nucleation.AdjustFactorPBLRatenucl", &n.AdjustFactorPBLRatenucl)
	setFloat("Microphysics.Nucleation.AccomCoefH2SO4", &n.AccomCoefH2SO4)
	setFloat("Microphysics.Nucleation.NewnucAdjustFactorDnaitdt", &n.NewnucAdjustFactorDnaitdt)

	setFloat("Aqueous.PH", &c.Aqueous.PH)

	setInt("Linoz.O3LBL", &c.Linoz.O3LBL)
	setFloat("Linoz.O3Sfc", &c.Linoz.O3Sfc)
	setFloat("Linoz.O3Tau", &c.Linoz.O3Tau)
	setFloat("Linoz.PSCT", &c.Linoz.PSCT)
	setFloat("Linoz.PressureLimit", &c.Linoz.PressureLimit)
	setPath("Linoz.ClimatologyFile", &c.Linoz.ClimatologyFile)

	u := &c.Unresolved
	for _, v := range []struct {
		name string
		dst  *float64
	}{
		{"ZenithAngle", &u.ZenithAngle},
		{"SurfaceAlbedo", &u.SurfaceAlbedo},
		{"EarthSunFactor", &u.EarthSunFactor},
		{"LiquidWaterContent", &u.LiquidWaterContent},
		{"CloudDropletNumber", &u.CloudDropletNumber},
		{"ChlorineLoading", &u.ChlorineLoading},
		{"OH", &u.OH},
		{"HO2", &u.HO2},
		{"NO3", &u.NO3},
		{"ExternalForcing", &u.ExternalForcing},
	} {
		setFloat("Unresolved."+v.name, v.dst)
	}

	if len(errs) > 0 {
		return c, fmt.Errorf("colchem: invalid configuration: %s", strings.Join(errs, "; "))
	}
	return c, c.Validate()
}

// checkInputFile expands any environment variables in the path f of the
// named input and makes sure the file exists.
func checkInputFile(name, f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf("colchem: you need to specify the %s file (for example: --%s=columns.nc)", name, name)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("colchem: problem with the %s file: %v", name, err)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`colchem: you need to specify an output file configuration variable (for example: OutputFile="output.nc")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("colchem: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// newLogger returns a logger that writes messages at or above level to
// console and to the file at logFile. The returned function closes the
// log file.
func newLogger(logFile, level string, console io.Writer) (*logrus.Logger, func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("colchem: invalid LogLevel: %v", err)
	}
	f, err := os.Create(logFile)
	if err != nil {
		return nil, nil, fmt.Errorf("colchem: problem creating log file: %v", err)
	}
	log := logrus.New()
	log.Out = io.MultiWriter(console, f)
	log.SetLevel(lvl)
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
	return log, func() { f.Close() }, nil
}
