package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/mcquad"
	"github.com/san-kum/mcquad/internal/backend"
	"github.com/san-kum/mcquad/internal/config"
	"github.com/san-kum/mcquad/internal/funcs"
	"github.com/san-kum/mcquad/internal/storage"
	"github.com/san-kum/mcquad/internal/tui"
)

var (
	dataDir string
	verbose bool

	fnName      string
	dimension   int
	nSamples    int
	seedFlag    int64
	backendName string
	dtypeName   string
	domainSpec  string
	useJIT      bool
	saveRun     bool
	configFile  string
	preset      string

	trials int
	nMin   int
	nMax   int

	batchN int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcquad",
		Short: "monte carlo integration lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcquad", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run [fn]",
		Short: "estimate one integral",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegration,
	}
	runCmd.Flags().IntVar(&dimension, "dim", 1, "dimensionality")
	runCmd.Flags().IntVar(&nSamples, "n", 1000, "number of sample points")
	runCmd.Flags().Int64Var(&seedFlag, "seed", -1, "random seed (-1 for non-reproducible)")
	runCmd.Flags().StringVar(&backendName, "backend", "", "numeric backend (default auto)")
	runCmd.Flags().StringVar(&dtypeName, "dtype", "float64", "sample precision")
	runCmd.Flags().StringVar(&domainSpec, "domain", "", "bounds as lo:hi,lo:hi (default per integrand)")
	runCmd.Flags().BoolVar(&useJIT, "jit", false, "use the compiled pipeline")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the run under the data directory")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	convergenceCmd := &cobra.Command{
		Use:   "convergence [fn]",
		Short: "error vs sample count study",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConvergence,
	}
	convergenceCmd.Flags().IntVar(&dimension, "dim", 1, "dimensionality")
	convergenceCmd.Flags().IntVar(&nMin, "n-min", 1000, "smallest sample count")
	convergenceCmd.Flags().IntVar(&nMax, "n-max", 1000000, "largest sample count")
	convergenceCmd.Flags().IntVar(&trials, "trials", 5, "trials per sample count")
	convergenceCmd.Flags().Int64Var(&seedFlag, "seed", 0, "base seed")
	convergenceCmd.Flags().StringVar(&backendName, "backend", "", "numeric backend (default auto)")

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list numeric backends",
		RunE:  listBackends,
	}

	funcsCmd := &cobra.Command{
		Use:   "funcs",
		Short: "list built-in integrands",
		RunE:  listFuncs,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "export stored runs to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportCSV(args[0])
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [fn]",
		Short: "watch an estimate converge",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&dimension, "dim", 1, "dimensionality")
	liveCmd.Flags().IntVar(&batchN, "batch", 10000, "sample points per batch")
	liveCmd.Flags().StringVar(&backendName, "backend", "", "numeric backend (default auto)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-10s fn=%s dim=%d n=%d\n", name, cfg.Fn, cfg.Dim, cfg.N)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, convergenceCmd, backendsCmd, funcsCmd, listCmd, exportCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// parseDomain reads bounds of the form "lo:hi,lo:hi", one pair per
// dimension.
func parseDomain(s string) ([][]float64, error) {
	var dom [][]float64
	for _, part := range strings.Split(s, ",") {
		bounds := strings.Split(part, ":")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("bad domain segment %q, want lo:hi", part)
		}
		lo, err := strconv.ParseFloat(bounds[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad lower bound %q: %w", bounds[0], err)
		}
		hi, err := strconv.ParseFloat(bounds[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad upper bound %q: %w", bounds[1], err)
		}
		dom = append(dom, []float64{lo, hi})
	}
	return dom, nil
}

// applyRunConfig folds preset and config-file settings into the flag
// variables; explicit flags were already parsed and win only where the
// config leaves defaults.
func applyRunConfig() error {
	apply := func(cfg *config.Config) {
		fnName = cfg.Fn
		dimension = cfg.Dim
		nSamples = cfg.N
		if cfg.Seed != nil {
			seedFlag = int64(*cfg.Seed)
		}
		if cfg.Backend != "" {
			backendName = cfg.Backend
		}
		if cfg.DType != "" {
			dtypeName = cfg.DType
		}
		if cfg.Domain != nil {
			segs := make([]string, len(cfg.Domain))
			for i, pair := range cfg.Domain {
				segs[i] = fmt.Sprintf("%g:%g", pair[0], pair[1])
			}
			domainSpec = strings.Join(segs, ",")
		}
		useJIT = useJIT || cfg.JIT
	}

	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(cfg)
	}
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		apply(cfg)
	}
	return nil
}

func runIntegration(cmd *cobra.Command, args []string) error {
	fnName = config.DefaultFn
	if err := applyRunConfig(); err != nil {
		return err
	}
	if len(args) > 0 {
		fnName = args[0]
	}

	spec, err := funcs.Get(fnName)
	if err != nil {
		return err
	}
	dtype, err := backend.ParseDType(dtypeName)
	if err != nil {
		return err
	}

	domain := spec.Domain(dimension)
	customDomain := false
	if domainSpec != "" {
		domain, err = parseDomain(domainSpec)
		if err != nil {
			return err
		}
		customDomain = true
	}

	opts := []mcquad.CallOption{
		mcquad.WithN(nSamples),
		mcquad.WithDomain(domain),
		mcquad.WithDType(dtype),
	}
	if backendName != "" {
		opts = append(opts, mcquad.WithBackend(backendName))
	}
	if seedFlag >= 0 {
		opts = append(opts, mcquad.WithSeed(uint64(seedFlag)))
	}

	logger := newLogger()
	defer logger.Sync()
	m := mcquad.New(mcquad.WithLogger(logger))

	start := time.Now()
	var estimate float64
	if useJIT {
		compiled, err := m.JITIntegrate(dimension, opts...)
		if err != nil {
			return err
		}
		estimate, err = compiled(spec.Fn, nil)
		if err != nil {
			return err
		}
	} else {
		estimate, err = m.Integrate(spec.Fn, dimension, opts...)
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	exact := math.NaN()
	if !customDomain {
		exact = spec.Exact(dimension)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "fn\t%s (dim %d)\n", fnName, dimension)
	fmt.Fprintf(w, "samples\t%d\n", nSamples)
	fmt.Fprintf(w, "estimate\t%.10g\n", estimate)
	if !math.IsNaN(exact) {
		fmt.Fprintf(w, "exact\t%.10g\n", exact)
		fmt.Fprintf(w, "abs error\t%.3e\n", math.Abs(estimate-exact))
	}
	fmt.Fprintf(w, "fevals\t%d\n", m.Evals())
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed.Round(time.Microsecond))
	w.Flush()

	if saveRun {
		rec := storage.RunRecord{
			Fn:       fnName,
			Dim:      dimension,
			N:        nSamples,
			Backend:  backendName,
			DType:    dtype.String(),
			JIT:      useJIT,
			Estimate: estimate,
			Fevals:   m.Evals(),
			Elapsed:  elapsed.Seconds(),
		}
		if seedFlag >= 0 {
			s := uint64(seedFlag)
			rec.Seed = &s
		}
		if !math.IsNaN(exact) {
			absErr := math.Abs(estimate - exact)
			rec.Exact = &exact
			rec.AbsError = &absErr
		}
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(rec)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", id)
	}
	return nil
}

func runConvergence(cmd *cobra.Command, args []string) error {
	fnName = config.DefaultFn
	if len(args) > 0 {
		fnName = args[0]
	}
	spec, err := funcs.Get(fnName)
	if err != nil {
		return err
	}
	exact := spec.Exact(dimension)
	if math.IsNaN(exact) {
		return fmt.Errorf("no exact value known for %s at dim %d", fnName, dimension)
	}
	domain := spec.Domain(dimension)

	var logErrs []float64
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "N\tmean abs error\tstddev\t")

	for n := nMin; n <= nMax; n *= 2 {
		errs := make([]float64, trials)
		for trial := 0; trial < trials; trial++ {
			est, err := mcquad.Integrate(spec.Fn, dimension,
				mcquad.WithN(n),
				mcquad.WithDomain(domain),
				mcquad.WithSeed(uint64(seedFlag)+uint64(trial)),
				mcquad.WithBackend(resolveBackend()),
			)
			if err != nil {
				return err
			}
			errs[trial] = math.Abs(est - exact)
		}
		mean := stat.Mean(errs, nil)
		sd := 0.0
		if trials > 1 {
			sd = stat.StdDev(errs, nil)
		}
		fmt.Fprintf(w, "%d\t%.3e\t%.3e\t\n", n, mean, sd)
		if mean > 0 {
			logErrs = append(logErrs, math.Log10(mean))
		}
	}
	w.Flush()

	if len(logErrs) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(logErrs,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("log10 abs error, N doubling from %d", nMin)),
		)
		fmt.Println(graph)
	}
	return nil
}

func resolveBackend() string {
	if backendName != "" {
		return backendName
	}
	return backend.Default().Name()
}

func listBackends(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAVAILABLE\tCOMPILATION\t")
	for _, name := range backend.Names() {
		b, err := backend.Lookup(name)
		if err != nil {
			continue
		}
		compiles := "no"
		if _, ok := b.(backend.Compiler); ok {
			compiles = "yes"
		}
		def := ""
		if name == backend.Default().Name() {
			def = " (default)"
		}
		fmt.Fprintf(w, "%s%s\t%v\t%s\t\n", name, def, b.Available(), compiles)
	}
	return w.Flush()
}

func listFuncs(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range funcs.Names() {
		spec, err := funcs.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t\n", name, spec.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	recs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFN\tDIM\tN\tESTIMATE\tABS ERROR\tWHEN\t")
	for _, r := range recs {
		absErr := "-"
		if r.AbsError != nil {
			absErr = fmt.Sprintf("%.3e", *r.AbsError)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.8g\t%s\t%s\t\n",
			r.ID, r.Fn, r.Dim, r.N, r.Estimate, absErr, r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	fnName = config.DefaultFn
	if len(args) > 0 {
		fnName = args[0]
	}
	spec, err := funcs.Get(fnName)
	if err != nil {
		return err
	}
	return tui.Run(tui.New(
		fnName,
		spec.Fn,
		dimension,
		batchN,
		resolveBackend(),
		spec.Domain(dimension),
		spec.Exact(dimension),
	))
}
