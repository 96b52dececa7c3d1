package client

import (
	"context"
	"sync"
)

// Fetcher tracks the single in-flight page request. Starting a new request
// aborts the previous one.
type Fetcher struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	token  uint64
}

// Begin cancels any in-flight request and returns a context and token for
// the new one.
func (f *Fetcher) Begin(parent context.Context) (context.Context, uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	f.token++
	return ctx, f.token
}

// Latest reports whether token belongs to the most recent request.
func (f *Fetcher) Latest(token uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return token == f.token
}

// Abort cancels the in-flight request, if any.
func (f *Fetcher) Abort() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}
