package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/spm/internal/reading"
	"github.com/san-kum/spm/internal/storage"
	"github.com/san-kum/spm/internal/stream"
	"github.com/san-kum/spm/internal/sweep"
	"github.com/san-kum/spm/internal/viz"
	"github.com/spf13/cobra"
)

// openInput returns the named file or the command's stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[0])
}

func (o *options) runEncode(cmd *cobra.Command, args []string) error {
	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	micros, err := reading.ParseText(in)
	if err != nil {
		return err
	}

	if o.outPath == "" {
		return reading.Encode(cmd.OutOrStdout(), micros)
	}
	return writeOutput(o.outPath, func(w io.Writer) error {
		return reading.Encode(w, micros)
	})
}

// writeOutput creates path and hands it to write. A failed Close is
// reported since it can lose buffered data.
func writeOutput(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func (o *options) runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return err
	}

	interval := cfg.Stream.Interval
	if o.interval != "" {
		interval, err = time.ParseDuration(o.interval)
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
		if interval <= 0 {
			return fmt.Errorf("interval must be positive, got %v", interval)
		}
	}

	in, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer in.Close()

	var micros []uint32
	if o.text {
		micros, err = reading.ParseText(in)
	} else {
		micros, err = reading.DecodeAll(in)
	}
	if err != nil {
		return err
	}
	if len(micros) == 0 {
		return fmt.Errorf("no samples in input")
	}

	filter := stream.NewFilter(cfg.Stream.ProportionalCutoff, cfg.Stream.DerivativeCutoff)
	sess := stream.NewSession(cfg.Rig.CylinderDiameterKm, interval, filter)

	tr, err := sess.Process(context.Background(), micros)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !o.noPlot {
		graph, err := viz.TracePlot(tr)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, viz.Summary("session",
		viz.F("samples", "%d", tr.Len()),
		viz.F("duration", "%s", viz.FormatClock(time.Duration(tr.Times[tr.Len()-1]*float64(time.Second)))),
		viz.F("avg power", "%.1f W", tr.Average()),
		viz.F("peak power", "%.1f W", tr.Peak()),
		viz.F("energy", "%.1f kJ", tr.Metrics["energy_j"]/1000),
		viz.F("filtered", "%.0f%%", 100*tr.Metrics["rejected_fraction"]),
		viz.F("idle", "%.0f%%", 100*tr.Metrics["idle_fraction"]),
		viz.F("profile", "%s", viz.Sparkline(tr.Watts, 40)),
	))

	if o.saveSession {
		st := storage.New(o.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveSession(sess, tr)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	return nil
}

func loadTrace(st *storage.Store, runID string) (*storage.RunMetadata, *stream.Trace, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	if meta.Kind != storage.KindSession {
		return nil, nil, fmt.Errorf("run %s is a %s, not a session", runID, meta.Kind)
	}

	table, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}

	tr := &stream.Trace{
		Times: table.Column("time"),
		Raw:   table.Column("raw_watts"),
		Watts: table.Column("watts"),
	}
	for _, m := range table.Column("micros") {
		tr.Micros = append(tr.Micros, uint32(m))
	}
	return meta, tr, nil
}

func loadSweep(st *storage.Store, runID string) (*sweep.Result, error) {
	table, err := st.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	return &sweep.Result{
		Micros: table.Column("micros"),
		Speeds: table.Column("mph"),
		Powers: table.Column("watts"),
	}, nil
}

func (o *options) runReplay(cmd *cobra.Command, args []string) error {
	st := storage.New(o.dataDir)
	meta, tr, err := loadTrace(st, args[0])
	if err != nil {
		return err
	}
	if tr.Len() == 0 {
		return fmt.Errorf("no data to replay")
	}

	interval := time.Duration(meta.Params["interval_s"] * float64(time.Second))
	m := viz.NewReplay(tr, interval)

	p := tea.NewProgram(m, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func (o *options) plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(o.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "kind: %s\n", meta.Kind)
	fmt.Fprintf(out, "samples: %d\n\n", meta.Samples)

	var graph string
	switch meta.Kind {
	case storage.KindSweep:
		res, err := loadSweep(st, runID)
		if err != nil {
			return err
		}
		graph, err = viz.PowerCurve(res)
		if err != nil {
			return err
		}
	case storage.KindSession:
		_, tr, err := loadTrace(st, runID)
		if err != nil {
			return err
		}
		graph, err = viz.TracePlot(tr)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown run kind: %s", meta.Kind)
	}

	fmt.Fprintln(out, graph)
	return nil
}

func (o *options) exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(o.dataDir)
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	if len(table.Rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (o *options) exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(o.dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	table, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(cmd.OutOrStdout(), meta, table)
}
