package managers

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libman/internal/shared"
)

// refreshGuard orders refresh results so only the newest issued one is applied.
type refreshGuard struct {
	issued  uint64
	applied uint64
}

// next stamps a new refresh. Callers must hold the owning manager's lock.
func (g *refreshGuard) next() uint64 {
	g.issued++
	return g.issued
}

// accept reports whether the refresh stamped seq is still current and marks it applied.
// Callers must hold the owning manager's lock.
func (g *refreshGuard) accept(seq uint64) bool {
	if seq <= g.applied {
		return false
	}
	g.applied = seq
	return true
}

// state holds what both managers share: the lock, logger and error message.
type state struct {
	mu     sync.Mutex
	logger *log.Logger
	err    string
}

func (s *state) init(logger *log.Logger, resource string) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s.logger = shared.WithLogger(logger, "resource", resource)
}

// Error returns the current user-facing error message, empty when there is none.
func (s *state) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError dismisses the current error message.
func (s *state) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// setError records msg as the current message.
func (s *state) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// reject records a local validation failure and returns it as an error.
func (s *state) reject(msg string) error {
	s.setError(msg)
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg)
}

// fail logs err, records msg and returns err.
func (s *state) fail(action string, err error, msg string, kv ...any) error {
	s.logger.Error(action+" failed", append(kv, "error", err)...)
	s.setError(msg)
	return err
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	dup := *v
	return &dup
}
