package main

import (
	"fmt"

	"github.com/san-kum/spm/internal/config"
	"github.com/spf13/cobra"
)

type options struct {
	dataDir    string
	configFile string
	preset     string

	cylinderKm  float64
	wheelM      float64
	sensorCylM  float64
	maxSpeedMps float64
	resistance  float64
	capacitance float64

	start   float64
	stop    float64
	samples int
	workers int

	saveSweep   bool
	saveSession bool
	svgPath     string
	noPlot      bool
	lang        string
	varName     string
	text        bool
	outPath     string
	interval    string
	propCut     float64
	derivCut    float64
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:          "spm",
		Short:        "trainer speed, power and sensor filter calculations",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&o.dataDir, "data", ".spm", "data directory")
	pf.StringVar(&o.configFile, "config", "", "rig config file path (yaml)")
	pf.StringVar(&o.preset, "preset", "", "use preset rig configuration")
	pf.Float64Var(&o.cylinderKm, "diameter-km", config.DefaultCylinderDiameterKm, "trainer cylinder diameter [km]")

	speedCmd := &cobra.Command{
		Use:   "speed [micros...]",
		Short: "linear speed from revolution periods",
		Args:  cobra.MinimumNArgs(1),
		RunE:  o.runSpeed,
	}

	powerCmd := &cobra.Command{
		Use:   "power [micros...]",
		Short: "power from revolution periods",
		Args:  cobra.MinimumNArgs(1),
		RunE:  o.runPower,
	}

	cutoffCmd := &cobra.Command{
		Use:   "cutoff",
		Short: "RC low-pass cutoff frequency",
		Args:  cobra.NoArgs,
		RunE:  o.runCutoff,
	}
	cutoffCmd.Flags().Float64Var(&o.resistance, "resistance", config.DefaultResistanceOhms, "resistance [ohms]")
	cutoffCmd.Flags().Float64Var(&o.capacitance, "capacitance", config.DefaultCapacitanceFarads, "capacitance [farads]")

	rotationCmd := &cobra.Command{
		Use:   "rotation",
		Short: "sensor cylinder rate at the maximum wheel speed",
		Args:  cobra.NoArgs,
		RunE:  o.runRotation,
	}
	rotationCmd.Flags().Float64Var(&o.maxSpeedMps, "max-speed", config.DefaultMaxSpeedMps, "maximum linear speed [m/s]")
	rotationCmd.Flags().Float64Var(&o.wheelM, "wheel", config.DefaultWheelDiameterM, "wheel diameter [m]")
	rotationCmd.Flags().Float64Var(&o.sensorCylM, "cylinder", config.DefaultSensorCylinderDiameterM, "cylinder diameter [m]")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "check the sensor filter passes the fastest cylinder rate",
		Args:  cobra.NoArgs,
		RunE:  o.runCheck,
	}
	checkCmd.Flags().Float64Var(&o.resistance, "resistance", config.DefaultResistanceOhms, "resistance [ohms]")
	checkCmd.Flags().Float64Var(&o.capacitance, "capacitance", config.DefaultCapacitanceFarads, "capacitance [farads]")
	checkCmd.Flags().Float64Var(&o.maxSpeedMps, "max-speed", config.DefaultMaxSpeedMps, "maximum linear speed [m/s]")
	checkCmd.Flags().Float64Var(&o.wheelM, "wheel", config.DefaultWheelDiameterM, "wheel diameter [m]")
	checkCmd.Flags().Float64Var(&o.sensorCylM, "cylinder", config.DefaultSensorCylinderDiameterM, "cylinder diameter [m]")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "evaluate speed and power over a range of periods",
		Args:  cobra.NoArgs,
		RunE:  o.runSweep,
	}
	sweepCmd.Flags().Float64Var(&o.start, "start", config.DefaultSweepStartMicros, "first period [us]")
	sweepCmd.Flags().Float64Var(&o.stop, "stop", config.DefaultSweepStopMicros, "last period [us]")
	sweepCmd.Flags().IntVar(&o.samples, "samples", config.DefaultSweepSamples, "number of samples")
	sweepCmd.Flags().IntVar(&o.workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&o.saveSweep, "save", false, "save the sweep to the data directory")
	sweepCmd.Flags().StringVar(&o.svgPath, "svg", "", "write the power curve as svg")
	sweepCmd.Flags().BoolVar(&o.noPlot, "no-plot", false, "skip the terminal plot")

	codegenCmd := &cobra.Command{
		Use:   "codegen",
		Short: "emit the mph and watts formulas as source code",
		Args:  cobra.NoArgs,
		RunE:  o.runCodegen,
	}
	codegenCmd.Flags().StringVar(&o.lang, "lang", "javascript", "target language (javascript, go, c)")
	codegenCmd.Flags().StringVar(&o.varName, "var", "micros", "name of the period variable")

	encodeCmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "convert a text period log to the firmware wire format",
		Args:  cobra.MaximumNArgs(1),
		RunE:  o.runEncode,
	}
	encodeCmd.Flags().StringVarP(&o.outPath, "out", "o", "", "output file (default stdout)")

	ingestCmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "convert recorded periods into a filtered power session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  o.runIngest,
	}
	ingestCmd.Flags().BoolVar(&o.text, "text", false, "input is one decimal period per line")
	ingestCmd.Flags().StringVar(&o.interval, "interval", "", "sampling interval (default from config)")
	ingestCmd.Flags().Float64Var(&o.propCut, "proportional-cutoff", config.DefaultStreamProportionalCutoff, "reject samples above this power [W]")
	ingestCmd.Flags().Float64Var(&o.derivCut, "derivative-cutoff", config.DefaultStreamDerivativeCutoff, "reject jumps larger than this [W]")
	ingestCmd.Flags().BoolVar(&o.saveSession, "save", true, "save the session to the data directory")
	ingestCmd.Flags().BoolVar(&o.noPlot, "no-plot", false, "skip the terminal plot")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a saved session in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  o.runReplay,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  o.listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  o.plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  o.exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  o.exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available rig presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(speedCmd, powerCmd, cutoffCmd, rotationCmd, checkCmd, sweepCmd, codegenCmd,
		encodeCmd, ingestCmd, replayCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)

	return rootCmd
}

// loadConfig resolves defaults, then the preset, then the config file
// laid over the preset, then any flag the user set explicitly.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if o.preset != "" {
		cfg = config.GetPreset(o.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets())
		}
	}

	if o.configFile != "" {
		loaded, err := config.LoadOver(o.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("diameter-km") {
		cfg.Rig.CylinderDiameterKm = o.cylinderKm
	}
	if flags.Changed("wheel") {
		cfg.Rig.WheelDiameterM = o.wheelM
	}
	if flags.Changed("cylinder") {
		cfg.Rig.SensorCylinderDiameterM = o.sensorCylM
	}
	if flags.Changed("max-speed") {
		cfg.Rig.MaxSpeedMps = o.maxSpeedMps
	}
	if flags.Changed("resistance") {
		cfg.Filter.ResistanceOhms = o.resistance
	}
	if flags.Changed("capacitance") {
		cfg.Filter.CapacitanceFarads = o.capacitance
	}
	if flags.Changed("start") {
		cfg.Sweep.StartMicros = o.start
	}
	if flags.Changed("stop") {
		cfg.Sweep.StopMicros = o.stop
	}
	if flags.Changed("samples") {
		cfg.Sweep.Samples = o.samples
	}
	if flags.Changed("proportional-cutoff") {
		cfg.Stream.ProportionalCutoff = o.propCut
	}
	if flags.Changed("derivative-cutoff") {
		cfg.Stream.DerivativeCutoff = o.derivCut
	}

	return cfg, nil
}
