package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/config"
	"github.com/san-kum/weavesim/internal/draft"
	"github.com/san-kum/weavesim/internal/export"
	"github.com/san-kum/weavesim/internal/metrics"
	"github.com/san-kum/weavesim/internal/runner"
	"github.com/san-kum/weavesim/internal/storage"
	"github.com/san-kum/weavesim/internal/viz"
	"github.com/san-kum/weavesim/internal/wif"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	logger  = slog.New(slog.DiscardHandler)

	// draft flags
	colorOut bool
	copyOut  bool
	pngPath  string
	cellSize int
	caption  bool

	// cloth flags
	material    string
	useDuration float64
	frames      int
	configFile  string
	scriptFile  string
	svgPath     string
	svgScale    float64
	benchFrames int
	durations   []float64
)

// main registers the draft and cloth command groups. With no subcommand it
// opens the interactive material picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "weavesim",
		Short: "weaving drafts and cloth simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
				draft.SetLogger(logger)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".weavesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	rootCmd.AddCommand(draftCommand(), clothCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func draftCommand() *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "inspect weaving drafts (WIF)",
	}

	showCmd := &cobra.Command{
		Use:   "show [file]",
		Short: "print a draft's drawdown",
		Args:  cobra.ExactArgs(1),
		RunE:  showDraft,
	}
	showCmd.Flags().BoolVar(&colorOut, "color", false, "render with thread colors")
	showCmd.Flags().BoolVar(&copyOut, "copy", false, "copy the drawdown to the clipboard")

	sectionsCmd := &cobra.Command{
		Use:   "sections [file]",
		Short: "list the sections of a WIF file",
		Args:  cobra.ExactArgs(1),
		RunE:  listSections,
	}

	renderCmd := &cobra.Command{
		Use:   "render [file]",
		Short: "render the drawdown as a PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderDraft,
	}
	renderCmd.Flags().StringVarP(&pngPath, "output", "o", "drawdown.png", "output file")
	renderCmd.Flags().IntVar(&cellSize, "cell", 12, "pixels per cell")
	renderCmd.Flags().BoolVar(&caption, "caption", true, "print the draft dimensions under the image")

	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "export a draft as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportDraft,
	}

	draftCmd.AddCommand(showCmd, sectionsCmd, renderCmd, exportCmd)
	return draftCmd
}

func clothCommand() *cobra.Command {
	clothCmd := &cobra.Command{
		Use:   "cloth",
		Short: "simulate cloth",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless cloth simulation and store it",
		RunE:  runCloth,
	}
	clothFlags(runCmd)
	runCmd.Flags().StringVar(&scriptFile, "script", "", "gesture script (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive cloth in the terminal",
		RunE:  runLive,
	}
	clothFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list material presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "simulate and write the final cloth as SVG",
		RunE:  clothSVG,
	}
	clothFlags(svgCmd)
	svgCmd.Flags().StringVar(&scriptFile, "script", "", "gesture script (yaml)")
	svgCmd.Flags().StringVarP(&svgPath, "output", "o", "cloth.svg", "output file")
	svgCmd.Flags().Float64Var(&svgScale, "scale", 40, "pixels per world unit")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every material preset",
		RunE:  benchMaterials,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 300, "frames per material")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare joint loss across use durations",
		RunE:  sweepDurations,
	}
	clothFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&scriptFile, "script", "", "gesture script (yaml)")
	sweepCmd.Flags().Float64SliceVar(&durations, "durations", []float64{0, 1, 2, 4, 8}, "use durations to compare")

	clothCmd.AddCommand(runCmd, liveCmd, presetsCmd, listCmd, plotCmd, svgCmd, benchCmd, sweepCmd)
	return clothCmd
}

func clothFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&material, "material", config.DefaultMaterial, "material preset")
	cmd.Flags().Float64Var(&useDuration, "duration", 0, "use duration (ages the fabric)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
}

func loadDraft(path string) (*draft.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	return draft.Parse(string(data)), nil
}

func showDraft(cmd *cobra.Command, args []string) error {
	d, err := loadDraft(args[0])
	if err != nil {
		return err
	}

	s := d.Summary()
	fmt.Printf("shafts: %d  treadles: %d  threads: %d  picks: %d  colors: %d\n", s.Shafts, s.Treadles, s.Threads, s.Picks, s.Colors)
	if s.Skipped > 0 {
		fmt.Printf("skipped %d malformed lines\n", s.Skipped)
	}
	fmt.Println()

	text := viz.DraftText(d)
	if colorOut {
		fmt.Print(viz.RenderDraft(d))
	} else {
		fmt.Print(text)
	}

	if copyOut {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Println("\ncopied to clipboard")
	}
	return nil
}

func listSections(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	sections := wif.Parse(string(data))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tLINES")
	for _, name := range sections.Names() {
		fmt.Fprintf(w, "%s\t%d\n", name, len(sections[name]))
	}
	return w.Flush()
}

func renderDraft(cmd *cobra.Command, args []string) error {
	d, err := loadDraft(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return err
	}
	defer f.Close()

	text := ""
	if caption {
		text = export.Caption(d)
	}
	if err := export.DrawdownPNG(f, d, cellSize, text); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", pngPath)
	return nil
}

func exportDraft(cmd *cobra.Command, args []string) error {
	d, err := loadDraft(args[0])
	if err != nil {
		return err
	}
	return export.DraftJSON(os.Stdout, d)
}

// clothConfig layers the config file, then any flags the user set.
func clothConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("material") || configFile == "" {
		if config.GetPreset(material) == nil {
			return nil, fmt.Errorf("unknown material: %s (available: %v)", material, config.ListPresets())
		}
		cfg.Material = material
	}
	if cmd.Flags().Changed("duration") {
		cfg.UseDuration = useDuration
	}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if scriptFile != "" {
		script, err := config.LoadScript(scriptFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load script: %w", err)
		}
		cfg.Script = script
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func simulate(cfg *config.Config) (*runner.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := runner.New(cfg)
	r.SetLogger(logger)
	m := cfg.Resolve()
	limit := 100 * m.Spacing * float64(m.Size)
	for _, metric := range metrics.Standard(cloth.MaxFrameDt/cloth.Substeps, limit) {
		r.AddMetric(metric)
	}
	return r.Run(ctx, cfg.Script)
}

func runCloth(cmd *cobra.Command, args []string) error {
	cfg, err := clothConfig(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := simulate(cfg)
	if err != nil && result == nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	m := cfg.Resolve()
	runID, saveErr := st.Save(storage.RunMetadata{
		Material:    cfg.Material,
		UseDuration: cfg.UseDuration,
		FrameDt:     cfg.FrameDt,
		Frames:      result.Frames,
		Size:        m.Size,
		Spacing:     m.Spacing,
		Metrics:     result.Metrics,
	}, result.Samples)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d in %v\n", result.Frames, elapsed.Round(time.Millisecond))
	fmt.Printf("joints: %d (broken %d, torn %d)\n\n", len(result.State.Joints), result.Broken, result.Torn)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range []string{"joint_loss", "max_strain", "kinetic", "stability"} {
		fmt.Fprintf(w, "%s\t%.4f\n", name, result.Metrics[name])
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}

	// Partial runs are still stored; report why they stopped.
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := clothConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunLive(cfg)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tK0\tKV\tDOT\tSIZE\tSPACING")
	for _, name := range config.ListPresets() {
		m := config.Materials[name]
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.1f\t%d\t%.1f\n", name, m.K0, m.KV, m.DotSize, m.Size, m.Spacing)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATERIAL\tTIME\tUSE\tFRAMES\tLOST")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%d\t%.0f\n",
			run.ID,
			run.Material,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.UseDuration,
			run.Frames,
			run.Metrics["joint_loss"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("material: %s (use %.1f)\n", meta.Material, meta.UseDuration)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(storage.Sample) float64
	}{
		{"joints", func(s storage.Sample) float64 { return float64(s.Joints) }},
		{"max strain", func(s storage.Sample) float64 { return s.MaxStrain }},
		{"kinetic energy", func(s storage.Sample) float64 { return s.Kinetic }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func clothSVG(cmd *cobra.Command, args []string) error {
	cfg, err := clothConfig(cmd)
	if err != nil {
		return err
	}

	result, err := simulate(cfg)
	if err != nil {
		return err
	}

	svg := export.ClothToSVG(result.State, svgScale, export.MaterialColor(cfg.Material, cfg.UseDuration))
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s after %d frames\n", svgPath, result.Frames)
	return nil
}

func benchMaterials(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %d frames per material\n\n", benchFrames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tPOINTS\tJOINTS\tTIME\tFRAMES/SEC")

	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		cfg.Frames = benchFrames

		start := time.Now()
		result, err := runner.Run(context.Background(), cfg, nil, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			name, len(result.State.Points), len(result.State.Joints),
			elapsed.Round(time.Microsecond), float64(result.Frames)/elapsed.Seconds())
	}

	return w.Flush()
}

func sweepDurations(cmd *cobra.Command, args []string) error {
	cfg, err := clothConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := cfg.Resolve()
	limit := 100 * m.Spacing * float64(m.Size)
	points := runner.Sweep(ctx, cfg, durations, cfg.Script, func() []metrics.Metric {
		return metrics.Standard(cloth.MaxFrameDt/cloth.Substeps, limit)
	})

	fmt.Printf("material: %s  frames: %d\n\n", cfg.Material, cfg.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USE\tSTIFFNESS\tLOST\tMAX STRAIN\tSTATUS")
	for _, p := range points {
		k, _ := config.Stiffness(m.K0, p.UseDuration)
		if p.Err != nil && p.Result == nil {
			fmt.Fprintf(w, "%.1f\t-\t-\t-\t%v\n", p.UseDuration, p.Err)
			continue
		}
		status := "ok"
		if p.Err != nil {
			status = p.Err.Error()
		}
		fmt.Fprintf(w, "%.1f\t%.0f\t%.0f\t%.4f\t%s\n",
			p.UseDuration, k, p.Result.Metrics["joint_loss"], p.Result.Metrics["max_strain"], status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := runner.Best(points, "joint_loss"); ok {
		fmt.Printf("\nleast loss at use %.1f\n", best.UseDuration)
	}
	return nil
}
