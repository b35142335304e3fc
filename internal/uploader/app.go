// Package uploader copies the files of a local directory into an R2 bucket
// as publicly readable objects and reports a per-file and final tally.
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/philharmonia/harmony/internal/common"
	"github.com/philharmonia/harmony/internal/logging"
)

// StoreFactory opens the object store for cfg.
type StoreFactory func(ctx context.Context, cfg *Config) (ObjectStore, error)

type App struct {
	config   *Config
	prompter *Prompter
	report   *Report
	logger   logging.Logger
	newStore StoreFactory
}

// NewApp wires the uploader to the process stdin, stdout and stderr.
func NewApp(c *Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, bool(c.Debug), os.Stderr)
	if err != nil {
		return nil, err
	}
	return newApp(c, NewPrompter(os.Stdin, os.Stdout), os.Stdout, logger, NewS3Store), nil
}

func newApp(c *Config, p *Prompter, out io.Writer, l logging.Logger, f StoreFactory) *App {
	return &App{
		config:   c,
		prompter: p,
		report:   NewReport(out),
		logger:   l.With("module", "uploader"),
		newStore: f,
	}
}

// Run performs one upload pass. Any returned error is fatal; per-file
// failures only show up in the returned Summary.
func (a *App) Run(ctx context.Context) (Summary, error) {
	a.report.Banner()

	if err := a.prompter.FillMissing(a.config); err != nil {
		return Summary{}, fmt.Errorf("read credentials: %w", err)
	}
	if err := a.config.Validate(); err != nil {
		return Summary{}, err
	}
	if err := checkInputDir(a.config.ImagesDir); err != nil {
		return Summary{}, err
	}

	a.report.Target(a.config.AccountID, a.config.Bucket)

	store, err := a.newStore(ctx, a.config)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", common.ErrConnectionFailed, err)
	}
	a.report.Connected()

	publicURL := a.config.PublicBaseURL()
	u := NewUploader(store, a.config.Bucket, publicURL, a.report, a.logger)

	if err := u.EnsureBucket(ctx); err != nil {
		return Summary{}, err
	}

	records, err := Collect(a.config.ImagesDir, func(path string, err error) {
		a.logger.Warn(ctx, "skipping unreadable path", "path", path, "error", err)
	})
	if err != nil {
		return Summary{}, err
	}
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("%w in %s", common.ErrNothingToUpload, a.config.ImagesDir)
	}
	a.report.Found(len(records))

	s, err := u.UploadAll(ctx, records)
	if err != nil {
		return s, err
	}
	a.report.Done(s, publicURL)

	a.logger.Info(ctx, "upload finished", "succeeded", s.Succeeded, "failed", s.Failed)
	return s, nil
}
