package revalidate

import "context"

// NoopSignaler discards notifications. Used when no revalidation endpoint is
// configured, and as the default in tests.
type NoopSignaler struct{}

// NewNoopSignaler returns a Signaler that does nothing.
func NewNoopSignaler() *NoopSignaler {
	return &NoopSignaler{}
}

// Invalidate implements Signaler.
func (s *NoopSignaler) Invalidate(ctx context.Context, paths ...string) error {
	return nil
}

var _ Signaler = (*NoopSignaler)(nil)
