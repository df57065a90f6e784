package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/scottlawsonbc/pvtrace/eventlog"
	"github.com/scottlawsonbc/pvtrace/sceneconfig"
	"github.com/scottlawsonbc/pvtrace/trace"
)

func runSimulate(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	scenePath := fs.String("scene", "", "scene YAML document")
	dbPath := fs.String("db", "", "SQLite event log path")
	n := fs.Int("n", 0, "override ray count when the scene has exactly one light source (0 = use the scene's own N)")
	seed := fs.Int64("seed", 1, "RNG seed")
	workers := fs.Int("workers", 1, "worker goroutines")
	killThreshold := fs.Float64("kill-threshold", 0.05, "killed-fraction above which the run is reported as partial")
	if err := fs.Parse(args); err != nil {
		return exitConfigError
	}
	if *scenePath == "" || *dbPath == "" {
		fmt.Fprintln(os.Stderr, "pvtrace simulate: -scene and -db are required")
		return exitConfigError
	}

	data, err := os.ReadFile(*scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: %v\n", err)
		return exitConfigError
	}
	doc, err := sceneconfig.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: %v\n", err)
		return exitConfigError
	}
	assets := os.DirFS(filepath.Dir(*scenePath))
	scene, sources, err := sceneconfig.Build(doc, assets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: %v\n", err)
		return exitConfigError
	}
	if *n > 0 && len(sources) == 1 {
		sources[0].N = *n
	}

	sink, err := eventlog.OpenSQLiteSink(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: %v\n", err)
		return exitRuntimeError
	}
	defer sink.Close()

	runID := uuid.New().String()
	engine := &trace.Engine{Scene: scene}
	stats, err := engine.TraceBatch(context.Background(), sources, *seed, *workers, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: run %s: %v\n", runID, err)
		return exitRuntimeError
	}

	fmt.Printf("run %s: traced=%d exited=%d killed=%d absorbed=%d errored=%d\n",
		runID, stats.Traced, stats.Exited, stats.Killed, stats.Absorbed, stats.Errored)

	if stats.Traced > 0 && float64(stats.Killed)/float64(stats.Traced) > *killThreshold {
		fmt.Fprintf(os.Stderr, "pvtrace simulate: killed fraction %.3f exceeds threshold %.3f\n",
			float64(stats.Killed)/float64(stats.Traced), *killThreshold)
		return exitPartialResult
	}
	return exitSuccess
}
