// Package main provides CLI commands for the revtree document store.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bkaradag/revtree/internal/config"
	"github.com/bkaradag/revtree/internal/engine"
	"github.com/bkaradag/revtree/internal/logging"
)

// openFlags are the flags shared by every store-touching command.
type openFlags struct {
	fs      *flag.FlagSet
	dataDir *string
	cfgPath *string
}

func newOpenFlags(name string) *openFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return &openFlags{
		fs:      fs,
		dataDir: fs.String("data-dir", "", "Data directory path"),
		cfgPath: fs.String("config", "", "Configuration file path"),
	}
}

// open loads configuration, applies flag overrides, and opens the store.
func (f *openFlags) open() (*engine.Engine, error) {
	cfg := config.DefaultConfig()
	if *f.cfgPath != "" {
		loaded, err := config.Load(*f.cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *f.dataDir != "" {
		cfg.Storage.DataDir = *f.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	return engine.Open(cfg.Storage.DataDir, engine.Options{
		TreeName: cfg.Storage.TreeName,
		Order:    cfg.Storage.Order,
		Logger:   logger,
	})
}

// putCmd handles the put command.
func putCmd(args []string) int {
	f := newOpenFlags("put")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}
	rest := f.fs.Args()
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: revtree put [options] <key> <value>")
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	if err := e.Put(rest[0], rest[1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(e.Head())
	return 0
}

// getCmd handles the get command.
func getCmd(args []string) int {
	f := newOpenFlags("get")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}
	rest := f.fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: revtree get [options] <key>")
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	value, err := e.Get(rest[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(value)
	return 0
}

// deleteCmd handles the delete command.
func deleteCmd(args []string) int {
	f := newOpenFlags("delete")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}
	rest := f.fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: revtree delete [options] <key>")
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	if err := e.Delete(rest[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(e.Head())
	return 0
}

// scanCmd handles the scan command.
func scanCmd(args []string) int {
	f := newOpenFlags("scan")
	start := f.fs.String("start", "", "First key of the range (inclusive)")
	end := f.fs.String("end", "", "Last key of the range (inclusive)")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	entries, err := e.Scan(*start, *end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, kv := range entries {
		fmt.Printf("%s\t%s\n", kv[0], kv[1])
	}
	return 0
}

// headCmd handles the head command.
func headCmd(args []string) int {
	f := newOpenFlags("head")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	fmt.Println(e.Head())
	return 0
}

// logCmd handles the log command.
func logCmd(args []string) int {
	f := newOpenFlags("log")
	limit := f.fs.Int("n", 10, "Maximum number of revisions to show (0 for all)")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	revs, err := e.History(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, r := range revs {
		fmt.Printf("%s  %s  %s\n", r.ID, r.Time.UTC().Format("2006-01-02 15:04:05"), r.Message)
	}
	return 0
}

// statsCmd handles the stats command.
func statsCmd(args []string) int {
	f := newOpenFlags("stats")
	if err := f.fs.Parse(args); err != nil {
		return 1
	}

	e, err := f.open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		return 1
	}
	defer e.Close()

	s := e.Stats()
	fmt.Printf("Height:         %d\n", s.Height)
	fmt.Printf("Leaf pages:     %d\n", s.LeafPages)
	fmt.Printf("Interior pages: %d\n", s.InteriorPages)
	fmt.Printf("Keys:           %d\n", s.Keys)
	return 0
}
