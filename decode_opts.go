package rsc

import "log/slog"

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	validateChecksums bool
	includeEmpty      bool
	strict            bool
	copy              bool
	logger            *slog.Logger
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	cfg := decodeConfig{strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithValidateChecksums verifies each resource's content against its
// declared checksum (default: false). A mismatch fails the decode with
// ErrChecksumMismatch.
func WithValidateChecksums(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.validateChecksums = enabled
	}
}

// WithIncludeEmpty returns holes alongside resources (default: false).
// Holes are always decoded to keep the record walk aligned; this only
// controls whether they appear in the result.
func WithIncludeEmpty(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.includeEmpty = enabled
	}
}

// WithStrict controls how unassigned resource type codes are handled
// (default: true). In strict mode they fail the decode with ErrInvalidType;
// otherwise they are reported as TypeUnknown, and re-encoding such an
// archive writes TypeUnknown in their place.
//
// Length and checksum errors are never relaxed.
func WithStrict(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.strict = enabled
	}
}

// WithCopy makes decoded entries own their bytes (default: false).
//
// By default Content, Padding and Filler are views over the input buffer.
// With copying enabled the input may be reused or modified freely after
// Decode returns.
func WithCopy(enabled bool) DecodeOption {
	return func(c *decodeConfig) {
		c.copy = enabled
	}
}

// WithLogger sets a logger for decode diagnostics.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) DecodeOption {
	return func(c *decodeConfig) {
		c.logger = logger
	}
}
