// Package runner drives one conversion run: it iterates the uploaded items
// in order, converts each into Records, collects per-item warnings, orders
// the result and writes the combined artifacts.
package runner

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ManassasDevAct/msg2txt/config"
	"github.com/ManassasDevAct/msg2txt/decode"
	"github.com/ManassasDevAct/msg2txt/dedup"
	"github.com/ManassasDevAct/msg2txt/export"
	"github.com/ManassasDevAct/msg2txt/filter"
	"github.com/ManassasDevAct/msg2txt/model"
	"github.com/ManassasDevAct/msg2txt/normalize"
	"github.com/ManassasDevAct/msg2txt/progress"
	"github.com/ManassasDevAct/msg2txt/record"
	"github.com/ManassasDevAct/msg2txt/stats"
)

// ErrNoRecords is returned when not a single input could be converted; in
// that case no artifacts are written.
var ErrNoRecords = errors.New("no messages could be converted")

// Warning is a per-item failure that did not stop the run.
type Warning struct {
	Item string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Item, w.Err)
}

// Result reports what one run produced.
type Result struct {
	Records   []model.Record
	Warnings  []Warning
	Artifacts []string
	Summary   stats.Summary
}

// Runner converts a batch of mail files into the combined export documents.
// Items are processed strictly one after another; all per-item state lives
// in convertItem so independent items could later run on a worker pool.
type Runner struct {
	cfg       config.Config
	logger    *slog.Logger
	collector *stats.Collector
	tracker   dedup.Tracker
	filter    *filter.Filter
	now       func() time.Time
}

// New validates the configuration-derived collaborators and builds a Runner.
func New(cfg config.Config, logger *slog.Logger) (*Runner, error) {
	f, err := filter.New(filter.Options{
		IncludeHeader: cfg.IncludeHeaderPatterns,
		IncludeBody:   cfg.IncludeBodyPatterns,
		ExcludeHeader: cfg.ExcludeHeaderPatterns,
		ExcludeBody:   cfg.ExcludeBodyPatterns,
	})
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	return &Runner{
		cfg:       cfg,
		logger:    logger,
		collector: stats.NewCollector(),
		tracker:   dedup.NewMemoryTracker(),
		filter:    f,
		now:       time.Now,
	}, nil
}

// Run executes the batch and writes the artifacts. Per-item failures are
// returned as warnings; only a run that converts nothing at all fails.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	paths, err := expandInputs(r.cfg.Inputs)
	if err != nil {
		return Result{}, err
	}

	bar := progress.New(len(paths), r.cfg.LogLevel)
	defer bar.Stop()
	started := r.now()

	var result Result
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		name := filepath.Base(path)
		r.emit(bar, stats.Event{Type: stats.EventTypeScanned, Item: name})

		records, err := r.convertItem(path, name)
		if err != nil {
			r.warn(&result, bar, name, err)
			continue
		}
		result.Records = append(result.Records, records...)
	}

	if len(result.Records) == 0 {
		result.Summary = r.collector.Snapshot()
		return result, ErrNoRecords
	}

	export.Sort(result.Records, export.Order(r.cfg.Order))

	if err := r.writeArtifacts(&result, bar); err != nil {
		return result, err
	}

	result.Summary = r.collector.Snapshot()
	bar.Stop()
	bar.Summary(result.Summary, time.Since(started), result.Artifacts)
	r.logger.Info("conversion finished", append(result.Summary.LogAttrs(), "duration", time.Since(started))...)

	return result, nil
}

// convertItem handles exactly one uploaded item: it stages the raw bytes in
// a scoped temporary file (the container decoders need file-backed input),
// decodes, filters and assembles. The temporary file is removed on every
// exit path.
func (r *Runner) convertItem(path, name string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := base64.StdEncoding.EncodeToString(sum[:])
	if r.tracker.AlreadyProcessed(hash) {
		r.collector.Apply(stats.Event{Type: stats.EventTypeDuplicate, Item: name})
		r.logger.Debug("skipping duplicate input", "item", name)
		return nil, nil
	}
	r.tracker.MarkProcessed(hash, name)

	decoder, err := decode.ForName(name)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "msg2txt-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("stage input: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("stage input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("stage input: %w", err)
	}

	decoded, err := decoder.Decode(tmpPath)
	if err != nil {
		return nil, err
	}

	opts := record.Options{
		IncludeHeaders: r.cfg.IncludeHeaders,
		IncludeBody:    r.cfg.IncludeBody,
	}

	records := make([]model.Record, 0, len(decoded))
	for i, dec := range decoded {
		if r.filter.Active() && !r.filter.Allows(dec.HeadersRaw, dec.Body) {
			r.collector.Apply(stats.Event{Type: stats.EventTypeFiltered, Item: name})
			continue
		}

		recordName := name
		if len(decoded) > 1 {
			recordName = fmt.Sprintf("%s#%d", name, i+1)
		}

		rec, debug := record.Assemble(recordName, dec, opts)
		if r.cfg.ShowDateDebug {
			r.logger.Info("date debug", append([]any{"item", recordName}, debug.LogAttrs()...)...)
		}

		r.collector.Apply(stats.Event{Type: stats.EventTypeConverted, Item: recordName})
		records = append(records, rec)
	}

	return records, nil
}

func (r *Runner) writeArtifacts(result *Result, bar *progress.Bar) error {
	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	base := fmt.Sprintf("merged_emails_%s", r.now().Format("20060102_150405"))

	txtPath, err := r.writeArtifact(base+".txt", []byte(export.Text(result.Records)))
	if err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, txtPath)

	markdown := export.Markdown(result.Records)
	mdPath, err := r.writeArtifact(base+".md", []byte(markdown))
	if err != nil {
		return err
	}
	result.Artifacts = append(result.Artifacts, mdPath)

	if r.cfg.ProducePDF {
		// Best effort: a missing wkhtmltopdf binary or a render failure
		// must not take down the txt and md artifacts.
		pdfBytes, err := export.PDF(markdown)
		if err != nil {
			r.emit(bar, stats.Event{Type: stats.EventTypePDFFailed, Err: err})
			r.logger.Warn("pdf export failed", "err", err)
		} else {
			pdfPath, err := r.writeArtifact(base+".pdf", pdfBytes)
			if err != nil {
				r.emit(bar, stats.Event{Type: stats.EventTypePDFFailed, Err: err})
				r.logger.Warn("pdf export failed", "err", err)
			} else {
				result.Artifacts = append(result.Artifacts, pdfPath)
			}
		}
	}

	return nil
}

func (r *Runner) writeArtifact(name string, data []byte) (string, error) {
	path := filepath.Join(r.cfg.OutDir, normalize.Filename(name, 0))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	r.collector.Apply(stats.Event{Type: stats.EventTypeArtifact, Artifact: path})
	r.logger.Info("wrote artifact", "path", path)
	return path, nil
}

func (r *Runner) warn(result *Result, bar *progress.Bar, name string, err error) {
	result.Warnings = append(result.Warnings, Warning{Item: name, Err: err})
	r.emit(bar, stats.Event{Type: stats.EventTypeError, Item: name, Err: err})
	r.logger.Warn("item failed", "item", name, "err", err)
}

func (r *Runner) emit(bar *progress.Bar, evt stats.Event) {
	r.collector.Apply(evt)
	bar.Update(evt)
}

// expandInputs resolves globs and keeps literal paths, preserving the
// caller's ordering.
func expandInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", input, err)
		}
		if len(matches) == 0 {
			// Not a glob (or nothing matched); let the read fail later with
			// a proper per-item warning instead of aborting the run here.
			paths = append(paths, input)
			continue
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}
	return paths, nil
}
