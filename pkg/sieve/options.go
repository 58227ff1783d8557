package sieve

import (
	"log/slog"

	"github.com/hejijunhao/sieve/internal/engine"
)

type options struct {
	settings engine.Settings
	logger   *slog.Logger
}

// Option configures a Sieve instance.
type Option func(*options)

// WithMinContentLength sets the minimum comment-stripped length in
// characters. Default: 10.
func WithMinContentLength(n int) Option {
	return func(o *options) { o.settings.MinContentLength = n }
}

// WithMaxComplexity sets the cyclomatic complexity above which a snippet
// is rejected. Default: 50.
func WithMaxComplexity(c float64) Option {
	return func(o *options) { o.settings.MaxComplexity = c }
}

// WithMinMaintainability sets the maintainability index below which a
// snippet is rejected. Default: 20.
func WithMinMaintainability(mi float64) Option {
	return func(o *options) { o.settings.MinMaintainability = mi }
}

// WithContamination sets the expected outlier fraction of each anomaly
// stage, in (0, 0.5]. Default: 0.1.
func WithContamination(c float64) Option {
	return func(o *options) { o.settings.Contamination = c }
}

// WithNeighbors sets the neighbourhood size of the density stage.
// Default: 20.
func WithNeighbors(k int) Option {
	return func(o *options) { o.settings.LOFNeighbors = k }
}

// WithTrees sets the isolation forest size and seed. Defaults: 100, 42.
func WithTrees(n int, seed int64) Option {
	return func(o *options) {
		o.settings.IsoTrees = n
		o.settings.IsoSeed = seed
	}
}

// WithLogger sets the logger for stage diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func defaultOptions() options {
	return options{settings: engine.DefaultSettings()}
}
