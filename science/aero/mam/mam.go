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

// Package mam describes the four-mode modal aerosol tracer set and the
// gas species that interact with it. The description is declarative and
// resolved once into fixed working-array offsets.
package mam

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Mode indices.
const (
	Accumulation = iota
	Aitken
	Coarse
	PrimaryCarbon
)

const (
	// NumModes is the number of aerosol modes.
	NumModes = 4

	// MaxSpecies is the maximum number of species in any mode.
	MaxSpecies = 7

	// NumGases is the number of gas species in the working array.
	NumGases = 6

	// MWDryAir is the molar mass of dry air [g/mol].
	MWDryAir = 28.966

	// RDryAir is the gas constant of dry air [J/kg/K].
	RDryAir = 287.04
)

// AirDensity returns the density of dry air [kg/m3] at pressure p [Pa]
// and temperature t [K].
func AirDensity(p, t float64) float64 {
	return p / (RDryAir * t)
}

// Gas is a gas-phase tracer.
type Gas struct {
	Name      string  `toml:"name"`
	MolarMass float64 `toml:"molar_mass"` // g/mol
}

// Species holds the bulk properties of an aerosol chemical component.
type Species struct {
	Name           string  `toml:"name"`
	MolarMass      float64 `toml:"molar_mass"`     // g/mol
	Density        float64 `toml:"density"`        // kg/m3
	Hygroscopicity float64 `toml:"hygroscopicity"` // κ
}

// Mode is a lognormal size class.
type Mode struct {
	Name       string   `toml:"name"`
	Suffix     string   `toml:"suffix"`
	Species    []string `toml:"species"`
	SigmaG     float64  `toml:"sigmag"`
	Dgnum      float64  `toml:"dgnum"`    // nominal number median diameter [m]
	DgnumLow   float64  `toml:"dgnum_lo"` // m
	DgnumHigh  float64  `toml:"dgnum_hi"` // m
	RHCrystal  float64  `toml:"rh_crystal"`
	RHDeliques float64  `toml:"rh_deliques"`
}

// Config is a resolved tracer description. Working-array slots are
// ordered gases first, then for each mode its species followed by its
// number concentration.
type Config struct {
	Gases   []Gas     `toml:"gas"`
	Species []Species `toml:"species"`
	Modes   []Mode    `toml:"mode"`

	// GasPcnst is the total number of working-array slots.
	GasPcnst int `toml:"-"`

	// NumberIndex holds the working-array slot of each mode's number.
	NumberIndex [NumModes]int `toml:"-"`

	// MassIndex holds the working-array slot of each mode's species,
	// or -1 where the mode has no species in that position.
	MassIndex [NumModes][MaxSpecies]int `toml:"-"`

	// MolarMass holds the molar mass of each working-array slot [g/mol].
	// Number slots carry the molar mass of dry air so that their mixing
	// ratios pass through the volume conversion unchanged.
	MolarMass []float64 `toml:"-"`

	gasIndex     map[string]int
	speciesIndex map[string]int
	slotNames    []string
	slotIndex    map[string]int
}

var defaultConfig *Config

func init() {
	var err error
	defaultConfig, err = Parse(strings.NewReader(mam4))
	if err != nil {
		panic(err)
	}
}

// Default returns the standard four-mode configuration. The returned value
// is shared and must not be modified.
func Default() *Config { return defaultConfig }

// Parse reads a TOML tracer description and resolves its layout.
func Parse(r io.Reader) (*Config, error) {
	c := new(Config)
	if _, err := toml.DecodeReader(r, c); err != nil {
		return nil, fmt.Errorf("mam: decoding tracer description: %v", err)
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) resolve() error {
	if len(c.Modes) != NumModes {
		return fmt.Errorf("mam: %d modes described, need %d", len(c.Modes), NumModes)
	}
	if len(c.Gases) != NumGases {
		return fmt.Errorf("mam: %d gases described, need %d", len(c.Gases), NumGases)
	}
	c.speciesIndex = make(map[string]int)
	for i, s := range c.Species {
		if s.MolarMass <= 0 || s.Density <= 0 {
			return fmt.Errorf("mam: species %s has non-positive molar mass or density", s.Name)
		}
		c.speciesIndex[s.Name] = i
	}
	c.gasIndex = make(map[string]int)
	c.MolarMass = c.MolarMass[:0]
	c.slotNames = c.slotNames[:0]
	for _, g := range c.Gases {
		c.gasIndex[g.Name] = len(c.MolarMass)
		c.MolarMass = append(c.MolarMass, g.MolarMass)
		c.slotNames = append(c.slotNames, g.Name)
	}
	for m, mode := range c.Modes {
		if len(mode.Species) > MaxSpecies {
			return fmt.Errorf("mam: mode %s has %d species, maximum is %d", mode.Name, len(mode.Species), MaxSpecies)
		}
		if mode.SigmaG <= 1 || mode.DgnumLow <= 0 || mode.DgnumHigh <= mode.DgnumLow {
			return fmt.Errorf("mam: mode %s has invalid size parameters", mode.Name)
		}
		for s := 0; s < MaxSpecies; s++ {
			c.MassIndex[m][s] = -1
		}
		for s, name := range mode.Species {
			i, ok := c.speciesIndex[name]
			if !ok {
				return fmt.Errorf("mam: mode %s references unknown species %q", mode.Name, name)
			}
			c.MassIndex[m][s] = len(c.MolarMass)
			c.MolarMass = append(c.MolarMass, c.Species[i].MolarMass)
			c.slotNames = append(c.slotNames, name+"_a"+mode.Suffix)
		}
		c.NumberIndex[m] = len(c.MolarMass)
		c.MolarMass = append(c.MolarMass, MWDryAir)
		c.slotNames = append(c.slotNames, "num_a"+mode.Suffix)
	}
	c.GasPcnst = len(c.MolarMass)
	c.slotIndex = make(map[string]int, len(c.slotNames))
	for i, name := range c.slotNames {
		c.slotIndex[name] = i
	}
	return nil
}

// NumAeroTracers returns the number of populated (mode, species) slots.
func (c *Config) NumAeroTracers() int {
	n := 0
	for _, m := range c.Modes {
		n += len(m.Species)
	}
	return n
}

// NumTracerFields returns the number of tracer fields exchanged with the
// host model: interstitial and cloud-borne number and mass for every mode,
// plus the gases.
func (c *Config) NumTracerFields() int {
	return 2*(NumModes+c.NumAeroTracers()) + len(c.Gases)
}

// GasIndex returns the working-array slot of the named gas.
func (c *Config) GasIndex(name string) (int, bool) {
	i, ok := c.gasIndex[name]
	return i, ok
}

// SpeciesProperties returns the properties of the species in position s
// of mode m.
func (c *Config) SpeciesProperties(m, s int) Species {
	return c.Species[c.speciesIndex[c.Modes[m].Species[s]]]
}

// SpeciesSlot returns the position of the named species in mode m, or -1.
func (c *Config) SpeciesSlot(m int, name string) int {
	for s, n := range c.Modes[m].Species {
		if n == name {
			return s
		}
	}
	return -1
}

// SlotIndex returns the working-array slot of the named gas or
// interstitial aerosol tracer ("SO2", "so4_a1", "num_a2").
func (c *Config) SlotIndex(name string) (int, bool) {
	i, ok := c.slotIndex[name]
	return i, ok
}

// SlotName returns the interstitial field name of working-array slot i.
func (c *Config) SlotName(i int) string { return c.slotNames[i] }

// NumberName returns the interstitial number field name of mode m.
func (c *Config) NumberName(m int) string { return "num_a" + c.Modes[m].Suffix }

// MassName returns the interstitial mass field name of species s in mode m.
func (c *Config) MassName(m, s int) string {
	return c.Modes[m].Species[s] + "_a" + c.Modes[m].Suffix
}

// CloudBorne converts an interstitial field name to its cloud-borne
// counterpart ("so4_a1" → "so4_c1").
func CloudBorne(name string) string {
	i := strings.LastIndex(name, "_a")
	if i < 0 {
		return name
	}
	return name[:i] + "_c" + name[i+2:]
}
