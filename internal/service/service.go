// Package service implements CookFeed's business operations.
//
// Services load what a decision needs from the store, ask the policy, and
// translate store errors into the domain error taxonomy so the API layer
// never sees a raw constraint violation.
package service

import (
	"errors"
	"fmt"
	"time"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/store"
	"github.com/cookfeed/cookfeed-server/internal/validation"
)

// validate is the shared request validator.
var validate = validation.New()

// now is swapped in tests that need a fixed clock.
var now = time.Now

// notFound converts store.ErrNotFound into a NotFound domain error and wraps
// anything else with op for context.
func notFound(err error, msg, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(msg).WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// conflict converts store.ErrAlreadyExists into a Conflict domain error,
// store.ErrNotFound into NotFound, and wraps anything else.
func conflict(err error, conflictMsg, notFoundMsg, op string) error {
	if errors.Is(err, store.ErrAlreadyExists) {
		return domainerrors.Conflict(conflictMsg).WithCause(err)
	}
	return notFound(err, notFoundMsg, op)
}
