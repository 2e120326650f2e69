package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/san-kum/spm/internal/codegen"
	"github.com/san-kum/spm/internal/export"
	"github.com/san-kum/spm/internal/formulas"
	"github.com/san-kum/spm/internal/storage"
	"github.com/san-kum/spm/internal/sweep"
	"github.com/san-kum/spm/internal/viz"
	"github.com/spf13/cobra"
)

func parsePeriods(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid period %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func (o *options) runSpeed(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	micros, err := parsePeriods(args)
	if err != nil {
		return err
	}

	speeds, err := formulas.SpeedSeries(micros, cfg.Rig.CylinderDiameterKm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range micros {
		fmt.Fprintf(out, "mph(%g) = %.6f\n", micros[i], speeds[i])
	}
	return nil
}

func (o *options) runPower(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	micros, err := parsePeriods(args)
	if err != nil {
		return err
	}

	powers, err := formulas.PowerSeries(micros, cfg.Rig.CylinderDiameterKm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range micros {
		fmt.Fprintf(out, "watts(%g) = %.6f\n", micros[i], powers[i])
	}
	return nil
}

func (o *options) runCutoff(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	f, err := formulas.CutoffFrequencyHz(cfg.Filter.ResistanceOhms, cfg.Filter.CapacitanceFarads)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "f_cutoff = %.2f hz\n", f)
	return nil
}

func (o *options) runRotation(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	rate, err := formulas.RotationalRateHz(cfg.Rig.MaxSpeedMps, cfg.Rig.WheelDiameterM, cfg.Rig.SensorCylinderDiameterM)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "cylinder_rps = %.2f hz\n", rate)
	return nil
}

// runCheck compares the low-pass cutoff with the fastest cylinder rate;
// pulses above the cutoff are attenuated before they reach the counter.
func (o *options) runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	rate, err := formulas.RotationalRateHz(cfg.Rig.MaxSpeedMps, cfg.Rig.WheelDiameterM, cfg.Rig.SensorCylinderDiameterM)
	if err != nil {
		return err
	}
	cutoff, err := formulas.CutoffFrequencyHz(cfg.Filter.ResistanceOhms, cfg.Filter.CapacitanceFarads)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cylinder_rps = %.2f hz\n", rate)
	fmt.Fprintf(out, "f_cutoff = %.2f hz\n", cutoff)

	if cutoff <= rate {
		return fmt.Errorf("filter cutoff %.2f hz does not clear cylinder rate %.2f hz", cutoff, rate)
	}
	fmt.Fprintf(out, "margin = %.2fx\n", cutoff/rate)
	return nil
}

func (o *options) runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	sc := sweep.Config{
		StartMicros:        cfg.Sweep.StartMicros,
		StopMicros:         cfg.Sweep.StopMicros,
		Samples:            cfg.Sweep.Samples,
		CylinderDiameterKm: cfg.Rig.CylinderDiameterKm,
		Workers:            o.workers,
	}

	res, err := sweep.Run(context.Background(), sc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !o.noPlot {
		graph, err := viz.PowerCurve(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	first, last := 0, res.Len()-1
	fmt.Fprintln(out, viz.Summary("sweep",
		viz.F("samples", "%d", res.Len()),
		viz.F("periods", "%.0f..%.0f us", res.Micros[first], res.Micros[last]),
		viz.F("speed", "%.3f..%.3f mph", res.Speeds[last], res.Speeds[first]),
		viz.F("power", "%.2f..%.2f W", res.Powers[last], res.Powers[first]),
	))

	if o.svgPath != "" {
		err := writeOutput(o.svgPath, func(w io.Writer) error {
			return export.WriteCurveSVG(w, res.Speeds, res.Powers, 800, 500, "#00ff88", "speed [mph]", "power [W]")
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "svg: %s\n", o.svgPath)
	}

	if o.saveSweep {
		st := storage.New(o.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveSweep(sc, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	return nil
}

func (o *options) runCodegen(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}
	return codegen.Emit(cmd.OutOrStdout(), o.lang, cfg.Rig.CylinderDiameterKm, o.varName)
}

func (o *options) listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(o.dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tSAMPLES\tMAX W")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Samples,
			run.Summary["max_watts"],
		)
	}

	return w.Flush()
}
