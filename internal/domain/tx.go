package domain

import (
	"context"
	"sync"
)

// Tx is an open unit of work
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager begins units of work. Repositories called with the returned context join the transaction.
type TxManager interface {
	Begin(ctx context.Context) (context.Context, Tx, error)
}

type afterCommitKey struct{}

// AfterCommitHooks collects callbacks to run once a transaction commits
type AfterCommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithAfterCommit returns a context that defers AfterCommit callbacks to hooks
func WithAfterCommit(ctx context.Context) (context.Context, *AfterCommitHooks) {
	hooks := &AfterCommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks
}

// AfterCommit runs fn when the transaction in ctx commits, or immediately when there is none
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(afterCommitKey{}).(*AfterCommitHooks); ok {
		hooks.mu.Lock()
		hooks.fns = append(hooks.fns, fn)
		hooks.mu.Unlock()
		return
	}
	fn()
}

// Run invokes the collected callbacks in registration order
func (h *AfterCommitHooks) Run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
