package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"flusignal/internal/model"
	"flusignal/internal/mutation"
	"flusignal/internal/reference"
	"flusignal/internal/storage"
	"flusignal/internal/timeseries"
	flusignalapi "flusignal/pkg/flusignal"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "detect":
		return runDetect(ctx, args[1:])
	case "aggregate":
		return runAggregate(ctx, args[1:], false)
	case "spatial":
		return runAggregate(ctx, args[1:], true)
	case "windows":
		return runWindows(ctx, args[1:])
	case "graph":
		return runGraph(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "summary":
		return runSummary(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: flusignalctl <detect|aggregate|spatial|windows|graph|runs|summary> [flags]", msg)
}

func runDetect(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	recordsPath := fs.String("records", "", "path to JSON record batch")
	knownPath := fs.String("known", "", "path to JSON list of known mutation notations")
	window := fs.Int("window", 0, "alignment anchor window (default 20)")
	outPath := fs.String("out", "", "write analyses JSON to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *recordsPath == "" {
		return usageError("detect requires -records")
	}

	records, err := loadRecords(*recordsPath)
	if err != nil {
		return err
	}
	var known []string
	if *knownPath != "" {
		if known, err = loadKnownMutations(*knownPath); err != nil {
			return err
		}
	}

	detector := mutation.NewDetector(reference.H3N2HA, known,
		mutation.WithAlignmentWindow(*window))

	analyses := make([]model.MutationAnalysis, 0, len(records))
	for _, rec := range records {
		analysis := detector.Analyze(rec)
		analysis.SchemaVersion = storage.CurrentSchemaVersion
		analysis.CodecVersion = storage.CurrentCodecVersion
		analyses = append(analyses, analysis)
		fmt.Printf("%s: %s\n", rec.ID, mutation.Summary(analysis.Mutations))
	}

	fmt.Printf("analyzed %s records against %s\n",
		humanize.Comma(int64(len(records))), reference.H3N2HA.Name)
	if *outPath != "" {
		return writeJSON(*outPath, analyses)
	}
	return nil
}

func runAggregate(ctx context.Context, args []string, spatial bool) error {
	name := "aggregate"
	if spatial {
		name = "spatial"
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	recordsPath := fs.String("records", "", "path to JSON record batch")
	configPath := fs.String("config", "", "path to config file")
	runID := fs.String("run-id", "", "run identifier (generated when empty)")
	topK := fs.Int("top-k", 0, "vocabulary size")
	smooth := fs.Int("smooth", 0, "smoothing window")
	detect := fs.Bool("detect", false, "run mutation detection over raw sequences")
	graphPath := fs.String("graph", "", "path to topology JSON (spatial only)")
	storeKind := fs.String("store", "", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "", "sqlite database path")
	outPath := fs.String("out", "", "write result JSON to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *recordsPath == "" {
		return usageError(name + " requires -records")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *topK > 0 {
		cfg.TopK = *topK
	}
	if *smooth > 0 {
		cfg.SmoothWindow = *smooth
	}
	if *detect {
		cfg.Detect = true
	}
	if *graphPath != "" {
		cfg.GraphPath = *graphPath
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	records, err := loadRecords(*recordsPath)
	if err != nil {
		return err
	}

	req := flusignalapi.RunRequest{
		RunID:           *runID,
		TopK:            cfg.TopK,
		SmoothWindow:    cfg.SmoothWindow,
		AlignmentWindow: cfg.AlignmentWindow,
		KnownMutations:  cfg.KnownMutations,
		DetectMutations: cfg.Detect,
		Spatial:         spatial,
	}
	if spatial {
		topology, err := loadTopology(cfg.GraphPath)
		if err != nil {
			return err
		}
		req.Topology = topology
	}
	if cfg.Store != "" {
		store, err := storage.NewStore(cfg.Store, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			_ = storage.CloseIfSupported(store)
		}()
		if err := store.Init(ctx); err != nil {
			return err
		}
		req.Store = store
	}

	result, err := flusignalapi.Run(ctx, req, records)
	if err != nil {
		return err
	}

	printSummary(result.Summary, len(result.Matrix.Dates), len(result.Matrix.Columns))
	if *outPath != "" {
		return writeJSON(*outPath, result)
	}
	return nil
}

func runWindows(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	matrixPath := fs.String("matrix", "", "path to frequency matrix JSON")
	inputLen := fs.Int("input-len", 52, "input window length in weeks")
	predLen := fs.Int("pred-len", 12, "prediction window length in weeks")
	outPath := fs.String("out", "", "write windows JSON to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *matrixPath == "" {
		return usageError("windows requires -matrix")
	}

	data, err := os.ReadFile(*matrixPath)
	if err != nil {
		return err
	}
	matrix, err := storage.DecodeMatrix(data)
	if err != nil {
		return err
	}

	inputs, targets := timeseries.SlidingWindows(matrix, *inputLen, *predLen)
	if len(inputs) == 0 {
		fmt.Printf("not enough data: need %d weeks, have %d\n", *inputLen+*predLen, len(matrix.Values))
	} else {
		fmt.Printf("cut %s windows of %d+%d weeks\n",
			humanize.Comma(int64(len(inputs))), *inputLen, *predLen)
	}
	return writeJSON(*outPath, map[string]any{
		"inputs":  inputs,
		"targets": targets,
	})
}

func runGraph(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	graphPath := fs.String("graph", "", "path to topology JSON (default built-in Asia graph)")
	adjacency := fs.Bool("adjacency", false, "print the adjacency matrix instead of the edge list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	topology, err := loadTopology(*graphPath)
	if err != nil {
		return err
	}
	if *adjacency {
		return writeJSON("", map[string]any{
			"nodes":     topology.Nodes(),
			"adjacency": topology.AdjacencyMatrix(),
		})
	}
	return writeJSON("", topology)
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "flusignal.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	for _, runID := range runs {
		fmt.Println(runID)
	}
	return nil
}

func runSummary(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "flusignal.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("summary requires -run-id")
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	summary, ok, err := store.GetSummary(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no summary for run %s", *runID)
	}
	return writeJSON("", summary)
}

func printSummary(summary model.AggregateSummary, weeks, columns int) {
	fmt.Printf("run %s: %s records, %d weeks, %d columns\n",
		summary.RunID, humanize.Comma(int64(summary.Records)), weeks, columns)
	if summary.Dropped > 0 {
		fmt.Printf("dropped %d records with unparseable dates\n", summary.Dropped)
	}
	if summary.ZeroSumRows > 0 {
		fmt.Printf("warning: %d zero-sum rows left unnormalized\n", summary.ZeroSumRows)
	}
	if summary.Unassigned > 0 {
		fmt.Printf("%d records matched no graph node (kept in global series)\n", summary.Unassigned)
	}
	for _, node := range summary.EmptyNodes {
		fmt.Printf("no data for %s, filled with Other=1.0\n", node)
	}
}
