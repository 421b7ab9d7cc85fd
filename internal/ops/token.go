// Package ops provides cooperative cancellation for UI-triggered work.
//
// A Token is an observable cancellation flag carried by one logical
// operation (a search, a render). Cancellation is advisory: work must
// call Err or Cancelled at its yield points. Context cancellation is
// the only stop mechanism.
package ops

import (
	"context"
	"errors"
	"fmt"
)

// Canceled is the sentinel all cancellation errors wrap. Callers treat
// it as a silent stop signal, never as a failure to surface.
var Canceled = errors.New("operation canceled")

// CancelError carries the human-readable reason an operation was
// cancelled. It wraps Canceled so errors.Is(err, Canceled) holds.
type CancelError struct {
	Reason string
}

func (e *CancelError) Error() string {
	if e.Reason == "" {
		return Canceled.Error()
	}
	return fmt.Sprintf("operation canceled: %s", e.Reason)
}

func (e *CancelError) Unwrap() error { return Canceled }

// IsCanceled reports whether err is a cancellation signal, including
// plain context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, Canceled) || errors.Is(err, context.Canceled)
}

// Token is the read side of one operation's cancellation state.
type Token struct {
	ctx context.Context
}

// Context exposes the token as a context for APIs that take one.
func (t *Token) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// Cancelled reports whether the token has been cancelled.
func (t *Token) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.ctx.Err() != nil
}

// Err returns a *CancelError once the token is cancelled, nil before.
// Work calls this at each yield point and returns the error upward.
func (t *Token) Err() error {
	if t == nil || t.ctx.Err() == nil {
		return nil
	}
	if cause := context.Cause(t.ctx); cause != nil {
		var ce *CancelError
		if errors.As(cause, &ce) {
			return ce
		}
	}
	return &CancelError{}
}

// Done returns a channel closed on cancellation, for select loops.
func (t *Token) Done() <-chan struct{} {
	if t == nil {
		ch := make(chan struct{})
		return ch
	}
	return t.ctx.Done()
}

// Source owns a Token and can cancel it.
type Source struct {
	token  *Token
	cancel context.CancelCauseFunc
}

// NewSource returns a fresh source whose token is cancelled when
// parent is, or when Cancel is called.
func NewSource(parent context.Context) *Source {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	return &Source{token: &Token{ctx: ctx}, cancel: cancel}
}

// Token returns the source's token. The same token is returned on
// every call.
func (s *Source) Token() *Token { return s.token }

// Cancel cancels the token with a reason. Subsequent calls are no-ops;
// the first reason wins.
func (s *Source) Cancel(reason string) {
	s.cancel(&CancelError{Reason: reason})
}
