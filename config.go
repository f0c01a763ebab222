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

package colchem

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spatialmodel/colchem/internal/hash"
	"github.com/spatialmodel/colchem/science/aero/amicphys"
	"github.com/spatialmodel/colchem/science/chem/aqueous"
	"github.com/spatialmodel/colchem/science/chem/linoz"
)

// Config holds the run-wide settings of the Microphysics process. It is
// fixed at Configure and read-only afterwards.
type Config struct {
	// DoGasChem, DoAqueousChem and DoLinoz enable the chemistry stages
	// that precede and follow the aerosol microphysics.
	DoGasChem     bool
	DoAqueousChem bool
	DoLinoz       bool

	Microphysics amicphys.Config
	Aqueous      aqueous.Config
	Linoz        linoz.Config

	// RSFFile and XSLongFile are the photolysis table sources: the
	// radiative source function lookup and the cross-section and quantum
	// yield lookup.
	RSFFile    string
	XSLongFile string

	// ChlorineLoadingFile is recorded but not read; the chlorine loading
	// is taken from Unresolved.ChlorineLoading.
	ChlorineLoadingFile string

	Unresolved Unresolved
}

// DefaultConfig returns the reference settings.
func DefaultConfig() Config {
	return Config{
		DoGasChem:           true,
		DoAqueousChem:       true,
		DoLinoz:             true,
		Microphysics:        amicphys.DefaultConfig(),
		Aqueous:             aqueous.DefaultConfig(),
		Linoz:               linoz.DefaultConfig(),
		RSFFile:             "../waccm/phot/RSF_GT200nm_v3.0_c080811.nc",
		XSLongFile:          "../waccm/phot/temp_prs_GT200nm_JPL10_c130206.nc",
		ChlorineLoadingFile: "../cam/chem/trop_mozart/ub/Linoz_Chlorine_Loading_CMIP6_0003-2017_c20171114.nc",
		Unresolved:          DefaultUnresolved(),
	}
}

// ReadConfig decodes TOML settings from r on top of the defaults. Keys
// are the field names of Config, with tables for the nested settings
// ("[Microphysics.Nucleation]").
func ReadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeReader(r, &cfg); err != nil {
		return cfg, configErrorf(processName, "decoding configuration: %v", err)
	}
	return cfg, nil
}

// Fingerprint returns a checksum of the settings. Runs with equal
// settings have equal fingerprints.
func (c Config) Fingerprint() string { return hash.Settings(c) }

// Validate checks the settings and returns a ConfigurationError
// describing the first problem found.
func (c Config) Validate() error {
	if c.RSFFile == "" {
		return configErrorf(processName, "missing photolysis RSF file path")
	}
	if c.XSLongFile == "" {
		return configErrorf(processName, "missing photolysis cross-section file path")
	}
	if err := c.Microphysics.Validate(); err != nil {
		return configErrorf(processName, "%v", err)
	}
	if err := c.Linoz.Validate(); err != nil {
		return configErrorf(processName, "%v", err)
	}
	if c.Aqueous.PH <= 0 || c.Aqueous.PH > 14 {
		return configErrorf(processName, "invalid cloud water pH %g", c.Aqueous.PH)
	}
	return c.Unresolved.validate()
}

// Unresolved holds inputs that the host model does not yet provide. Each
// defaults to a placeholder value and is applied uniformly to every column
// and level.
type Unresolved struct {
	ZenithAngle        float64 // rad
	SurfaceAlbedo      float64 // 1
	EarthSunFactor     float64 // Earth-Sun distance factor
	LiquidWaterContent float64 // kg/kg
	CloudDropletNumber float64 // #/kg
	ChlorineLoading    float64 // ppb
	OH                 float64 // mol/mol
	HO2                float64 // mol/mol
	NO3                float64 // mol/mol
	ExternalForcing    float64 // molecules/cm3/s
}

// DefaultUnresolved returns the placeholder values.
func DefaultUnresolved() Unresolved {
	return Unresolved{EarthSunFactor: 1}
}

// Incomplete returns the names of the inputs still at their placeholder
// values.
func (u Unresolved) Incomplete() []string {
	d := DefaultUnresolved()
	var names []string
	for _, v := range []struct {
		name      string
		have, def float64
	}{
		{"ZenithAngle", u.ZenithAngle, d.ZenithAngle},
		{"SurfaceAlbedo", u.SurfaceAlbedo, d.SurfaceAlbedo},
		{"EarthSunFactor", u.EarthSunFactor, d.EarthSunFactor},
		{"LiquidWaterContent", u.LiquidWaterContent, d.LiquidWaterContent},
		{"CloudDropletNumber", u.CloudDropletNumber, d.CloudDropletNumber},
		{"ChlorineLoading", u.ChlorineLoading, d.ChlorineLoading},
		{"OH", u.OH, d.OH},
		{"HO2", u.HO2, d.HO2},
		{"NO3", u.NO3, d.NO3},
		{"ExternalForcing", u.ExternalForcing, d.ExternalForcing},
	} {
		if v.have == v.def {
			names = append(names, v.name)
		}
	}
	return names
}

func (u Unresolved) validate() error {
	switch {
	case u.SurfaceAlbedo < 0 || u.SurfaceAlbedo > 1:
		return configErrorf(processName, "surface albedo %g outside [0, 1]", u.SurfaceAlbedo)
	case u.EarthSunFactor <= 0:
		return configErrorf(processName, "earth-sun factor must be positive, not %g", u.EarthSunFactor)
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"liquid water content", u.LiquidWaterContent},
		{"cloud droplet number", u.CloudDropletNumber},
		{"chlorine loading", u.ChlorineLoading},
		{"OH", u.OH},
		{"HO2", u.HO2},
		{"NO3", u.NO3},
		{"external forcing", u.ExternalForcing},
	} {
		if v.val < 0 {
			return configErrorf(processName, "%s must not be negative, not %g", v.name, v.val)
		}
	}
	return nil
}

func (u Unresolved) String() string {
	return fmt.Sprintf("zenith angle %g rad, albedo %g, earth-sun factor %g, LWC %g kg/kg, CDNC %g #/kg, chlorine %g ppb, OH/HO2/NO3 %g/%g/%g, forcing %g",
		u.ZenithAngle, u.SurfaceAlbedo, u.EarthSunFactor, u.LiquidWaterContent, u.CloudDropletNumber,
		u.ChlorineLoading, u.OH, u.HO2, u.NO3, u.ExternalForcing)
}
