// Command remap integer-codes categorical columns of a delimited table.
//
// It loads a pipeline config (or builds one from flags), constructs the task
// graph, executes it, and optionally loads the final table into a database
// and removes intermediate artifacts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"remap/internal/config"
	"remap/internal/fingerprint"
	"remap/internal/remap"
	"remap/internal/storage"
	"remap/internal/table"
	"remap/internal/task"

	// register all backends with the storage factory.
	_ "remap/internal/storage/all"
)

func main() {
	var (
		cfgPath   string
		inputPath string
		tableName string
		columns   string
		saveDir   string
		finalName string
		workers   int
		cleanup   bool
		validate  bool
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (overrides the other input flags)")
	flag.StringVar(&inputPath, "input", "", "input table path")
	flag.StringVar(&tableName, "table", "", "input table name (defaults to the file name without extension)")
	flag.StringVar(&columns, "columns", "", "comma-separated categorical columns to remap")
	flag.StringVar(&saveDir, "savedir", ".", "directory for output artifacts")
	flag.StringVar(&finalName, "final", "", "override the final artifact name")
	flag.IntVar(&workers, "workers", 0, "max tasks running concurrently (0 = default)")
	flag.BoolVar(&cleanup, "cleanup", false, "delete intermediate artifacts after a successful run")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	var p config.Pipeline
	if cfgPath != "" {
		f, err := os.Open(cfgPath)
		if err != nil {
			fatalf("open config: %v", err)
		}
		if err := json.NewDecoder(f).Decode(&p); err != nil {
			f.Close()
			fatalf("decode config: %v", err)
		}
		f.Close()
	} else {
		p = pipelineFromFlags(inputPath, tableName, columns, saveDir, finalName, workers, cleanup)
	}

	issues := config.ValidatePipeline(p)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		log.Printf("configuration is valid")
		os.Exit(0)
	}

	ctx := context.Background()
	start := time.Now()

	opt := table.Options{
		Comma:     p.CSV.Rune("comma", ','),
		TrimSpace: p.CSV.Bool("trim_space", false),
	}
	ref := table.Ref{Name: p.Table.Name, Path: p.Table.Path}
	r, err := remap.NewRemapper(ref, p.Columns, remap.Options{
		SaveDir:   p.SaveDir,
		CSV:       opt,
		FinalName: p.FinalName,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("pipeline: table=%s columns=%v tasks=%d savedir=%s",
			p.Table.Name, p.Columns, len(r.AllTasks()), p.SaveDir)
	}

	if err := task.Execute(ctx, r.FinalResult(), task.ExecuteOptions{Workers: p.Runtime.Workers}); err != nil {
		log.Fatalf("%v", err)
	}

	finalPath := r.FinalResult().Output().Path()
	sum, err := fingerprint.File(finalPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("final artifact: %s xxh3=%016x", finalPath, sum)

	if p.Storage.Kind != "" {
		if err := loadFinal(ctx, p, r, opt); err != nil {
			log.Fatalf("load into %s: %v", p.Storage.Kind, err)
		}
	}

	if p.Cleanup {
		if err := r.DeleteIntermediates(); err != nil {
			log.Fatalf("cleanup: %v", err)
		}
		if *verbose {
			log.Printf("intermediate artifacts removed")
		}
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// pipelineFromFlags assembles a config.Pipeline from individual flags, for
// quick runs without a config file.
func pipelineFromFlags(input, name, columns, saveDir, finalName string, workers int, cleanup bool) config.Pipeline {
	if name == "" && input != "" {
		base := input
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		if i := strings.LastIndexByte(base, '.'); i > 0 {
			base = base[:i]
		}
		name = base
	}
	var cols []string
	for _, c := range strings.Split(columns, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return config.Pipeline{
		Job:       name + "-remap",
		Table:     config.TableRef{Name: name, Path: input},
		Columns:   cols,
		SaveDir:   saveDir,
		FinalName: finalName,
		CSV:       config.Options{},
		Runtime:   config.RuntimeConfig{Workers: workers},
		Cleanup:   cleanup,
	}
}

// loadFinal bulk-loads the pipeline's final table into the configured
// storage backend, creating the destination table when needed. Remapped
// columns are loaded as integers, everything else as text.
func loadFinal(ctx context.Context, p config.Pipeline, r *remap.Remapper, opt table.Options) error {
	rc, err := r.FinalResult().Output().Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	d, err := table.ReadFrom(rc, opt)
	if err != nil {
		return err
	}

	coded := make(map[string]bool, len(p.Columns))
	for _, c := range p.Columns {
		coded[c] = true
	}
	cols := make([]storage.Column, len(d.Header))
	names := make([]string, len(d.Header))
	for i, h := range d.Header {
		cols[i] = storage.Column{Name: h, Integer: coded[h]}
		names[i] = h
	}

	repo, err := storage.New(ctx, storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     p.Storage.DB.DSN,
		Table:   p.Storage.DB.Table,
		Columns: cols,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx); err != nil {
		return err
	}
	rows, err := storage.Rows(cols, d.Rows)
	if err != nil {
		return err
	}
	n, err := storage.LoadRows(ctx, repo, names, rows, p.Storage.DB.BatchSize)
	if err != nil {
		return err
	}
	log.Printf("loaded %d rows into %s.%s", n, p.Storage.Kind, p.Storage.DB.Table)
	return nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
