package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thomaslty/ass-to-srt/internal/config"
	"github.com/thomaslty/ass-to-srt/internal/fileops"
	"github.com/thomaslty/ass-to-srt/pkg/logger"
)

// ErrInputDirNotFound is returned when the input directory does not exist.
// It is the only fatal error a run produces; everything else is per-file.
var ErrInputDirNotFound = errors.New("input directory not found")

// FileConverter converts one subtitle file. Implemented by converter.Converter.
type FileConverter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Failure records one file that could not be converted.
type Failure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Summary aggregates the outcome of one batch run.
type Summary struct {
	Total     int       `json:"total"`
	Converted int       `json:"converted"`
	Failed    []Failure `json:"failed,omitempty"`
	Elapsed   time.Duration
}

// Runner walks the input directory and converts every matched file,
// strictly sequentially, in lexicographic filename order.
type Runner struct {
	cfg  *config.Config
	conv FileConverter
	jobs []*Job
}

// NewRunner creates a batch runner.
func NewRunner(cfg *config.Config, conv FileConverter) *Runner {
	return &Runner{cfg: cfg, conv: conv}
}

// Jobs returns the jobs of the last run, in processing order.
func (r *Runner) Jobs() []*Job {
	return r.jobs
}

// Run converts every matched file in the input directory. Individual failures
// are collected into the summary and never abort the batch; the error return
// is reserved for fatal conditions (missing input directory, unreadable
// listing, context cancellation between jobs).
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	in := r.cfg.Paths.Input
	out := r.cfg.Paths.Output

	if !fileops.DirExists(in) {
		return nil, fmt.Errorf("%w: %s", ErrInputDirNotFound, in)
	}

	if err := fileops.EnsureDir(out); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", out, err)
	}

	jobs, err := r.scan(in, out)
	if err != nil {
		return nil, err
	}
	r.jobs = jobs

	if len(jobs) == 0 {
		logger.Infof("📂 No subtitle files found in %s", in)
		return &Summary{Elapsed: time.Since(start)}, nil
	}

	logger.Infof("📂 Found %d subtitle file(s) in %s", len(jobs), in)

	summary := &Summary{Total: len(jobs)}
	for _, job := range jobs {
		// Cancellation takes effect between jobs only; an in-flight write is
		// never interrupted, the temp-then-rename contract covers the rest.
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
		if err := r.process(ctx, job, summary); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// scan lists the input directory (non-recursive) and builds one job per
// matched file. os.ReadDir returns entries sorted by filename, which fixes
// the processing order. When two sources map to the same output name (e.g.
// foo.ass and foo.ssa), the first one claims it and later ones fail at
// conversion time with a conflict error.
func (r *Runner) scan(in, out string) ([]*Job, error) {
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", in, err)
	}

	claimed := make(map[string]string) // output name → source name
	var jobs []*Job
	for _, entry := range entries {
		if entry.IsDir() || !fileops.IsSubtitleFile(entry.Name(), r.cfg.Convert.IncludeSSA) {
			continue
		}

		name := entry.Name()
		outName := fileops.ReplaceExtension(name, ".srt")

		job := NewJob(filepath.Join(in, name), filepath.Join(out, outName), name)
		if first, ok := claimed[outName]; ok {
			job.Status = StatusFailed
			job.Error = fmt.Sprintf("output %s already produced by %s", outName, first)
		} else {
			claimed[outName] = name
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// process runs one job. Per-file failures go into the summary; the error
// return is reserved for a cancellation that surfaced through the converter,
// which interrupts the batch instead of being booked against the file.
func (r *Runner) process(ctx context.Context, job *Job, summary *Summary) error {
	if job.Status == StatusFailed {
		// Destination conflict detected at scan time.
		logger.Errorf("✗ %s: %s", job.FileName, job.Error)
		summary.Failed = append(summary.Failed, Failure{File: job.FileName, Reason: job.Error})
		return nil
	}

	job.Status = StatusRunning
	job.StartedAt = time.Now()

	err := r.conv.Convert(ctx, job.SourcePath, job.DestPath)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		job.Status = StatusPending
		return err
	}
	job.CompletedAt = time.Now()

	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		logger.Errorf("✗ %s: %v", job.FileName, err)
		summary.Failed = append(summary.Failed, Failure{File: job.FileName, Reason: err.Error()})
		return nil
	}

	job.Status = StatusCompleted
	summary.Converted++
	logger.Infof("✓ Converted: %s → %s (job %s)", job.FileName, filepath.Base(job.DestPath), job.ID)
	return nil
}
