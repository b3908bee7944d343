package handlers

import "github.com/talentops/cvhub/internal/observability"

// observeDB wraps a store call with DB metrics when a collector is wired;
// handlers built without one (unit tests) just run the call.
func observeDB(m *observability.Prom, op string, fn func() error) error {
	if m != nil {
		return m.ObserveDB(op, fn)
	}
	return fn()
}
