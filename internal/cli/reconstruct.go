package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/neurotrace-dev/neurotrace/internal/analysis"
	"github.com/neurotrace-dev/neurotrace/internal/builder"
	"github.com/neurotrace-dev/neurotrace/internal/fileutil"
	"github.com/neurotrace-dev/neurotrace/internal/output"
	"github.com/neurotrace-dev/neurotrace/internal/state"
	"github.com/neurotrace-dev/neurotrace/internal/swc"
)

type reconstructJob struct {
	path  string
	label string
	hash  string
}

type reconstructResult struct {
	Path        string   `json:"path"`
	Label       string   `json:"label"`
	Skipped     bool     `json:"skipped,omitempty"`
	Error       string   `json:"error,omitempty"`
	Stems       int      `json:"stems,omitempty"`
	Samples     int      `json:"samples,omitempty"`
	Diagnostics int      `json:"diagnostics,omitempty"`
	Outputs     []string `json:"outputs,omitempty"`

	inputState *state.InputState
}

func RunReconstruct(cmd *cobra.Command, args []string) error {
	start := time.Now()

	opts, err := resolveReconstructOptions(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to read --force flag: %w", err)
	}

	registry := swc.NewDefaultRegistry()
	inputs, err := discoverInputs(args, registry)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no morphology files found under %s", strings.Join(args, ", "))
	}

	st, err := state.Load(opts.Out)
	if err != nil {
		logger.Warn("state file unreadable, starting fresh", "error", err)
		st = state.NewState()
	}

	labels := assignLabels(inputs)

	jobs := make([]reconstructJob, 0, len(inputs))
	results := make([]reconstructResult, 0, len(inputs))
	for _, path := range inputs {
		hash, err := fileutil.HashFile(path)
		if err != nil {
			return fmt.Errorf("failed to hash %s: %w", path, err)
		}
		if !force && !st.HasChanged(path, hash) {
			results = append(results, reconstructResult{Path: path, Label: labels[path], Skipped: true})
			continue
		}
		jobs = append(jobs, reconstructJob{path: path, label: labels[path], hash: hash})
	}

	progress := newProgressReporter("reconstruct", len(jobs), asJSON)
	results = append(results, runWorkers(jobs, opts, registry, progress)...)
	progress.Done(len(jobs))

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
			logger.Error("reconstruction failed", "path", res.Path, "error", res.Error)
			continue
		}
		if res.inputState != nil {
			st.SetInput(res.Path, *res.inputState)
			for _, out := range res.Outputs {
				hash, err := fileutil.HashFile(out)
				if err == nil {
					st.SetOutputHash(out, hash)
				}
			}
		}
	}
	if err := st.Save(opts.Out); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	summary := RunSummary{
		Mode:       "reconstruct",
		Format:     string(opts.Format),
		OutputDir:  opts.Out,
		Scanned:    len(inputs),
		Processed:  len(jobs),
		Skipped:    len(inputs) - len(jobs),
		Failed:     failed,
		DurationMS: time.Since(start).Milliseconds(),
		Results:    results,
	}
	if err := PrintRunSummary(summary, asJSON); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d morphologies failed", failed, len(jobs))
	}
	return nil
}

// runWorkers reconstructs the queued files in parallel. Each worker owns a
// private pipeline per morphology; no state is shared beyond the channels.
func runWorkers(jobs []reconstructJob, opts *reconstructOptions, registry *swc.Registry, progress *progressReporter) []reconstructResult {
	jobCh := make(chan reconstructJob)
	resultCh := make(chan reconstructResult)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- reconstructOne(job, opts, registry)
			}
		}()
	}
	go func() {
		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)
		wg.Wait()
		close(resultCh)
	}()

	results := make([]reconstructResult, 0, len(jobs))
	for res := range resultCh {
		results = append(results, res)
		progress.Update(res.Path, len(results))
	}
	return results
}

func reconstructOne(job reconstructJob, opts *reconstructOptions, registry *swc.Registry) reconstructResult {
	res := reconstructResult{Path: job.path, Label: job.label}

	table, diags, err := registry.ReadFile(job.path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if table == nil {
		res.Error = "unsupported file type"
		return res
	}

	m, buildDiags, err := builder.Reconstruct(table, job.label)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	diags = append(diags, buildDiags...)

	report := analysis.Analyze(m)
	writer := output.NewWriter(opts.Out)
	outputs, err := writer.Write(m, report, diags, opts.Format)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Stems = m.StemCount()
	res.Samples = m.SampleCount()
	res.Diagnostics = len(diags)
	res.Outputs = outputs
	res.inputState = &state.InputState{
		Hash:        job.hash,
		Label:       job.label,
		Format:      string(m.Format()),
		Stems:       m.StemCount(),
		Samples:     m.SampleCount(),
		Diagnostics: len(diags),
	}
	return res
}

type reconstructOptions struct {
	Out     string
	Format  output.Format
	Workers int
}

func resolveReconstructOptions(cmd *cobra.Command) (*reconstructOptions, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read --config flag: %w", err)
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return nil, fmt.Errorf("failed to read --out flag: %w", err)
	}
	if !cmd.Flags().Changed("out") && cfg.Out != "" {
		out = cfg.Out
	}

	formatValue, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to read --format flag: %w", err)
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		formatValue = cfg.Format
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return nil, err
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, fmt.Errorf("failed to read --workers flag: %w", err)
	}
	if !cmd.Flags().Changed("workers") && cfg.Workers > 0 {
		workers = cfg.Workers
	}
	if workers < 1 {
		workers = 1
	}

	return &reconstructOptions{Out: out, Format: format, Workers: workers}, nil
}

// discoverInputs expands files and directories into the list of supported
// morphology files, deduplicated and sorted.
func discoverInputs(args []string, registry *swc.Registry) ([]string, error) {
	seen := make(map[string]bool)
	out := make([]string, 0)

	add := func(path string) {
		if _, ok := registry.ReaderForFile(path); !ok {
			return
		}
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to access %q: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.Walk(arg, func(path string, info os.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !info.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(out)
	return out, nil
}

func morphologyLabel(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// assignLabels maps each input path to a unique morphology label. Inputs from
// different directories may share a basename; those get a numeric suffix in
// input order so parallel jobs never write to the same output files. The
// path-to-label mapping is visible in the run summary results.
func assignLabels(inputs []string) map[string]string {
	byLabel := make(map[string][]string)
	for _, path := range inputs {
		base := morphologyLabel(path)
		byLabel[base] = append(byLabel[base], path)
	}

	labels := make(map[string]string, len(inputs))
	for base, paths := range byLabel {
		if len(paths) == 1 {
			labels[paths[0]] = base
			continue
		}
		logger.Warn("duplicate input basename, disambiguating labels", "label", base, "count", len(paths))
		for i, path := range paths {
			labels[path] = fmt.Sprintf("%s-%d", base, i+1)
		}
	}
	return labels
}
