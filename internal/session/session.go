// Package session tracks the single in-progress order bound to a browser
// session. Every binding is scoped to one session id; operations never see
// another session's order.
package session

import (
	"context"
	"errors"
)

// ErrNoBinding is returned by Get when the session has no order in progress.
var ErrNoBinding = errors.New("no order bound to session")

// Binding is the per-request view of one session's order slot. It is passed
// explicitly into every checkout operation instead of living in ambient
// request state.
type Binding interface {
	Get(ctx context.Context) (uint, error)
	Set(ctx context.Context, orderID uint) error
	Clear(ctx context.Context) error
}

// Store hands out bindings keyed by session id.
type Store interface {
	Binding(sessionID string) Binding
}
