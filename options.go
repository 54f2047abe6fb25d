package ocre

import "log/slog"

// Option configures an SDK at construction time.
type Option func(*SDK)

// WithLogger sets the logger. The default is olog.Default(), which reads its
// configuration from the environment.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SDK) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLimits replaces the default capacities and poll pacing. Zero or
// negative fields fall back to their defaults.
func WithLimits(limits Limits) Option {
	return func(s *SDK) {
		def := DefaultLimits()
		if limits.MaxCallbacks <= 0 {
			limits.MaxCallbacks = def.MaxCallbacks
		}
		if limits.PinsPerPort <= 0 {
			limits.PinsPerPort = def.PinsPerPort
		}
		if limits.MaxPorts <= 0 {
			limits.MaxPorts = def.MaxPorts
		}
		if limits.MaxTopicLen <= 0 {
			limits.MaxTopicLen = def.MaxTopicLen
		}
		if limits.MaxContentTypeLen <= 0 {
			limits.MaxContentTypeLen = def.MaxContentTypeLen
		}
		if limits.MaxPayloadLen <= 0 {
			limits.MaxPayloadLen = def.MaxPayloadLen
		}
		if limits.BatchSize <= 0 {
			limits.BatchSize = def.BatchSize
		}
		if limits.PollDelay <= 0 {
			limits.PollDelay = def.PollDelay
		}
		if limits.IdleDelay <= 0 {
			limits.IdleDelay = def.IdleDelay
		}
		s.limits = limits
	}
}
