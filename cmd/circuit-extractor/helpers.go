package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical/circuit-extractor/cmd/circuit-extractor/ui"
	"github.com/spherical/circuit-extractor/internal/process"
)

// keywordFlags are the two search terms shared by process and inspect.
type keywordFlags struct {
	instance string
	outer    string
}

// resolve fills blank keywords from config, then by prompting when stdin is
// a terminal. Anything still blank is left for the service to reject.
func (k *keywordFlags) resolve() error {
	if k.instance == "" {
		k.instance = cfg.Processing.DefaultInstanceKeyword
	}
	if k.outer == "" {
		k.outer = cfg.Processing.DefaultOuterKeyword
	}

	if outputJSON || !ui.IsTerminal() {
		return nil
	}

	var err error
	if k.instance == "" {
		if k.instance, err = ui.PromptWithDefault(os.Stdin, os.Stdout, "Instance keyword (e.g. ae2)", ""); err != nil {
			return fmt.Errorf("read instance keyword: %w", err)
		}
	}
	if k.outer == "" {
		if k.outer, err = ui.PromptWithDefault(os.Stdin, os.Stdout, "Outer keyword (e.g. outer -1002)", ""); err != nil {
			return fmt.Errorf("read outer keyword: %w", err)
		}
	}
	return nil
}

// runService opens path and hands it to fn with a spinner while the sheet is
// read and a progress bar while rows are enriched.
func runService(
	ctx context.Context,
	path string,
	keywords keywordFlags,
	fn func(context.Context, process.Request) (*process.Response, error),
) (*process.Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	req := process.Request{
		Input:           f,
		Filename:        filepath.Base(path),
		InstanceKeyword: keywords.instance,
		OuterKeyword:    keywords.outer,
	}

	if !ui.Interactive() {
		return fn(ctx, req)
	}

	spin := ui.NewSpinner(fmt.Sprintf("Reading %s", filepath.Base(path)))
	spin.Start()
	spinning := true

	var bar *ui.ProgressBar
	req.Progress = func(done, total int) {
		if bar == nil {
			spin.Stop()
			spinning = false
			bar = ui.NewProgressBar(int64(total), "Extracting fields")
		}
		bar.Set(int64(done))
		if done == total {
			bar.Finish()
			spin.UpdateMessage("Assembling output")
			spin.Start()
			spinning = true
		}
	}

	resp, err := fn(ctx, req)
	if spinning {
		spin.Stop()
	}
	return resp, err
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
