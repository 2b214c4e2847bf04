package clipstack

import "log/slog"

// Option configures a Stack during creation.
//
// Example:
//
//	// Default: process-wide generation IDs, package logger
//	s := clipstack.New()
//
//	// IDs unique only among stacks sharing the counter
//	ids := clipstack.NewGenIDCounter()
//	s := clipstack.New(clipstack.WithGenIDSource(ids))
type Option func(*options)

// options holds optional configuration for Stack creation.
type options struct {
	genIDs GenIDSource
	logger *slog.Logger
}

// defaultOptions returns the default stack options.
func defaultOptions() options {
	return options{
		genIDs: DefaultGenIDSource(),
		logger: nil, // Falls back to Logger() at call time
	}
}

// WithGenIDSource sets the generation ID source of the stack.
// A nil source keeps the process-wide default.
//
// Sharing a mask cache between stacks is only safe when their IDs come from
// a common source.
func WithGenIDSource(src GenIDSource) Option {
	return func(o *options) {
		if src != nil {
			o.genIDs = src
		}
	}
}

// WithLogger overrides the package logger for one stack.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
