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

// Package colchemutil contains the command-line interface of colchem.
package colchemutil

import (
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/colchem"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	def := colchem.DefaultConfig()
	process := []*pflag.FlagSet{runCmd.Flags(), tableCmd.Flags()}

	// Options are the configuration options available to colchem.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the location of a TOML configuration file.
              Its keys are the option names below, with tables for the
              nested settings ([Microphysics], [Microphysics.Nucleation],
              [Linoz], [Aqueous] and [Unresolved]).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum level of log messages to print:
              debug, info, warning or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "state",
			usage: `
              state is the path to the netCDF column state file. It must
              have dimensions ncol and lev and one variable for each field
              required by the microphysics process.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the netCDF file where the column
              state is written at the end of the run. It can include
              environment variables.`,
			shorthand:  "o",
			defaultVal: "colchem_out.nc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired log file location. If not
              specified, the log file is written next to OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "steps",
			usage: `
              steps is the number of time steps to run.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "dt",
			usage: `
              dt is the time step length in seconds.`,
			defaultVal: 1800.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of in-process workers that share the
              photolysis table. 1 builds the table serially.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{tableCmd.Flags()},
		},
		{
			name: "DoGasChem",
			usage: `
              DoGasChem specifies whether to run gas-phase chemistry.`,
			defaultVal: def.DoGasChem,
			flagsets:   process,
		},
		{
			name: "DoAqueousChem",
			usage: `
              DoAqueousChem specifies whether to run cloud sulfur chemistry.`,
			defaultVal: def.DoAqueousChem,
			flagsets:   process,
		},
		{
			name: "DoLinoz",
			usage: `
              DoLinoz specifies whether to run linearized stratospheric
              ozone chemistry.`,
			defaultVal: def.DoLinoz,
			flagsets:   process,
		},
		{
			name: "RSFFile",
			usage: `
              RSFFile is the path to the photolysis radiative source
              function table. It can include environment variables.`,
			defaultVal: def.RSFFile,
			flagsets:   process,
		},
		{
			name: "XSLongFile",
			usage: `
              XSLongFile is the path to the photolysis cross section and
              quantum yield table. It can include environment variables.`,
			defaultVal: def.XSLongFile,
			flagsets:   process,
		},
		{
			name: "ChlorineLoadingFile",
			usage: `
              ChlorineLoadingFile is the path to the chlorine loading time
              series. It is recorded but not read.`,
			defaultVal: def.ChlorineLoadingFile,
			flagsets:   process,
		},
		{
			name: "Microphysics.DoCond",
			usage: `
              Microphysics.DoCond specifies whether to run condensation.`,
			defaultVal: def.Microphysics.DoCond,
			flagsets:   process,
		},
		{
			name: "Microphysics.DoRename",
			usage: `
              Microphysics.DoRename specifies whether to transfer particles
              from the Aitken to the accumulation mode.`,
			defaultVal: def.Microphysics.DoRename,
			flagsets:   process,
		},
		{
			name: "Microphysics.DoNewnuc",
			usage: `
              Microphysics.DoNewnuc specifies whether to run new particle
              formation.`,
			defaultVal: def.Microphysics.DoNewnuc,
			flagsets:   process,
		},
		{
			name: "Microphysics.DoCoag",
			usage: `
              Microphysics.DoCoag specifies whether to run coagulation.`,
			defaultVal: def.Microphysics.DoCoag,
			flagsets:   process,
		},
		{
			name: "Microphysics.CoagInterval",
			usage: `
              Microphysics.CoagInterval is the number of time steps between
              coagulation calculations.`,
			defaultVal: def.Microphysics.CoagInterval,
			flagsets:   process,
		},
		{
			name: "Microphysics.GaexchH2SO4UptakeOptaa",
			usage: `
              Microphysics.GaexchH2SO4UptakeOptaa selects the H2SO4 uptake
              treatment: 1 uses the current gas mixing ratio and 2
              integrates the gas-phase production over the step.`,
			defaultVal: def.Microphysics.GaexchH2SO4UptakeOptaa,
			flagsets:   process,
		},
		{
			name: "Microphysics.NewnucH2SO4ConcOptaa",
			usage: `
              Microphysics.NewnucH2SO4ConcOptaa selects the H2SO4
              concentration used for nucleation: 1 is the value after
              condensation and 2 the average of the values before and after.`,
			defaultVal: def.Microphysics.NewnucH2SO4ConcOptaa,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.NewnucMethodUserChoice",
			usage: `
              Microphysics.Nucleation.NewnucMethodUserChoice selects the
              boundary layer nucleation parameterization: 1 for activation
              and 2 for kinetic nucleation.`,
			defaultVal: def.Microphysics.Nucleation.NewnucMethodUserChoice,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.PBLNucWang2008UserChoice",
			usage: `
              Microphysics.Nucleation.PBLNucWang2008UserChoice turns boundary
              layer nucleation on (1) or off (0).`,
			defaultVal: def.Microphysics.Nucleation.PBLNucWang2008UserChoice,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.DensSO4aHost",
			usage: `
              Microphysics.Nucleation.DensSO4aHost is the density of
              freshly nucleated sulfate [kg/m3].`,
			defaultVal: def.Microphysics.Nucleation.DensSO4aHost,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.MWSO4aHost",
			usage: `
              Microphysics.Nucleation.MWSO4aHost is the molar mass of
              freshly nucleated sulfate [g/mol].`,
			defaultVal: def.Microphysics.Nucleation.MWSO4aHost,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.AdjustFactorPBLRatenucl",
			usage: `
              Microphysics.Nucleation.AdjustFactorPBLRatenucl scales the
              boundary layer nucleation rate.`,
			defaultVal: def.Microphysics.Nucleation.AdjustFactorPBLRatenucl,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.AccomCoefH2SO4",
			usage: `
              Microphysics.Nucleation.AccomCoefH2SO4 is the H2SO4 mass
              accommodation coefficient.`,
			defaultVal: def.Microphysics.Nucleation.AccomCoefH2SO4,
			flagsets:   process,
		},
		{
			name: "Microphysics.Nucleation.NewnucAdjustFactorDnaitdt",
			usage: `
              Microphysics.Nucleation.NewnucAdjustFactorDnaitdt scales the
              Aitken mode number production from nucleation.`,
			defaultVal: def.Microphysics.Nucleation.NewnucAdjustFactorDnaitdt,
			flagsets:   process,
		},
		{
			name: "Aqueous.PH",
			usage: `
              Aqueous.PH is the cloud water pH.`,
			defaultVal: def.Aqueous.PH,
			flagsets:   process,
		},
		{
			name: "Linoz.O3LBL",
			usage: `
              Linoz.O3LBL is the number of levels above the bottom boundary
              where ozone relaxes toward Linoz.O3Sfc.`,
			defaultVal: def.Linoz.O3LBL,
			flagsets:   process,
		},
		{
			name: "Linoz.O3Sfc",
			usage: `
              Linoz.O3Sfc is the ozone relaxation target [mol/mol].`,
			defaultVal: def.Linoz.O3Sfc,
			flagsets:   process,
		},
		{
			name: "Linoz.O3Tau",
			usage: `
              Linoz.O3Tau is the ozone relaxation time [s].`,
			defaultVal: def.Linoz.O3Tau,
			flagsets:   process,
		},
		{
			name: "Linoz.PSCT",
			usage: `
              Linoz.PSCT is the temperature below which polar stratospheric
              clouds destroy ozone [K].`,
			defaultVal: def.Linoz.PSCT,
			flagsets:   process,
		},
		{
			name: "Linoz.PressureLimit",
			usage: `
              Linoz.PressureLimit is the pressure below which linearized
              ozone chemistry applies [Pa].`,
			defaultVal: def.Linoz.PressureLimit,
			flagsets:   process,
		},
		{
			name: "Linoz.ClimatologyFile",
			usage: `
              Linoz.ClimatologyFile is the path to the netCDF ozone
              chemistry coefficient profiles. If empty, the coefficients
              are zero and only the boundary relaxation changes ozone.`,
			defaultVal: def.Linoz.ClimatologyFile,
			flagsets:   process,
		},
	}
	for _, u := range []struct {
		name, usage string
		def         float64
	}{
		{"ZenithAngle", "the solar zenith angle [rad]", def.Unresolved.ZenithAngle},
		{"SurfaceAlbedo", "the surface albedo", def.Unresolved.SurfaceAlbedo},
		{"EarthSunFactor", "the Earth-Sun distance factor", def.Unresolved.EarthSunFactor},
		{"LiquidWaterContent", "the cloud liquid water content [kg/kg]", def.Unresolved.LiquidWaterContent},
		{"CloudDropletNumber", "the cloud droplet number [#/kg]", def.Unresolved.CloudDropletNumber},
		{"ChlorineLoading", "the stratospheric chlorine loading [ppb]", def.Unresolved.ChlorineLoading},
		{"OH", "the OH volume mixing ratio [mol/mol]", def.Unresolved.OH},
		{"HO2", "the HO2 volume mixing ratio [mol/mol]", def.Unresolved.HO2},
		{"NO3", "the NO3 volume mixing ratio [mol/mol]", def.Unresolved.NO3},
		{"ExternalForcing", "the external forcing of each forced species [molecules/cm3/s]", def.Unresolved.ExternalForcing},
	} {
		options = append(options, option{
			name: "Unresolved." + u.name,
			usage: fmt.Sprintf(`
              Unresolved.%s is %s, applied to every column and level.`, u.name, u.usage),
			defaultVal: u.def,
			flagsets:   process,
		})
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("COLCHEM")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(tableCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("colchem: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "colchem",
	Short: "Aerosol microphysics and chemistry for atmosphere model columns.",
	Long: `colchem advances the gas and aerosol tracers of atmosphere model columns
through gas-phase chemistry, cloud chemistry, modal aerosol microphysics and
linearized stratospheric ozone chemistry.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'COLCHEM_var' where 'var' is the
upper-case name of the variable to be set, with dots replaced by underscores
(for example COLCHEM_MICROPHYSICS_DOCOAG). Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of colchem.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("colchem v%s\n", colchem.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs the column processes.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the microphysics and optics processes.",
	Long: `run reads the column state file given by --state, advances it by
--steps time steps of --dt seconds with the microphysics and optics
processes and writes the resulting state to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ProcessConfig(Cfg)
		if err != nil {
			return err
		}
		state, err := checkInputFile("state", Cfg.GetString("state"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(checkLogFile(Cfg.GetString("LogFile"), outputFile), Cfg.GetString("LogLevel"), cmd.OutOrStderr())
		if err != nil {
			return err
		}
		defer closeLog()
		return Run(log, cfg, state, outputFile, Cfg.GetInt("steps"), Cfg.GetFloat64("dt"))
	},
	DisableAutoGenTag: true,
}

// tableCmd is a command that builds the photolysis table.
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build the photolysis table.",
	Long: `table builds the photolysis table from RSFFile and XSLongFile on
--workers in-process workers and prints its dimensions and checksum.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ProcessConfig(Cfg)
		if err != nil {
			return err
		}
		return Table(cmd.OutOrStdout(), cfg, Cfg.GetInt("workers"))
	},
	DisableAutoGenTag: true,
}
