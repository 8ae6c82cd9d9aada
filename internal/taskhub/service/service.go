// Package service holds the client side coordinators: TaskService mirrors
// the signed in user's tasks with optimistic mutations, SessionService
// tracks who is signed in.
//
// Both keep their state on a loop.Loop. Public methods are called from
// outside the loop (HTTP handlers, background workers). They apply local
// changes on the loop, perform the remote call off the loop and settle the
// outcome back on the loop. Calling them from a closure already running on
// the loop deadlocks.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/ParamD12/taskhub-app/internal/taskhub/cache"
	"github.com/ParamD12/taskhub-app/internal/taskhub/remote"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultRemoteTimeout  = 10 * time.Second
	DefaultLoadingTimeout = 8 * time.Second
	DefaultRetryInitial   = time.Second
	DefaultRetryMax       = 30 * time.Second
	DefaultMaxRetries     = 3

	// storeTimeout bounds writes to the local state store.
	storeTimeout = 2 * time.Second
)

// Options tunes timing. Zero values select the defaults.
type Options struct {
	RemoteTimeout  time.Duration
	LoadingTimeout time.Duration
	StaleAfter     time.Duration

	// Retries of fetches and profile writes wait
	// min(RetryInitial * 2^attempt, RetryMax) between attempts.
	RetryInitial time.Duration
	RetryMax     time.Duration
	MaxRetries   int

	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.RemoteTimeout <= 0 {
		o.RemoteTimeout = DefaultRemoteTimeout
	}
	if o.LoadingTimeout <= 0 {
		o.LoadingTimeout = DefaultLoadingTimeout
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = cache.DefaultStaleAfter
	}
	if o.RetryInitial <= 0 {
		o.RetryInitial = DefaultRetryInitial
	}
	if o.RetryMax <= 0 {
		o.RetryMax = DefaultRetryMax
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// remoteContext detaches ctx from its caller's cancellation and bounds it
// with the remote timeout. In-flight remote calls are never cancelled by
// the caller going away.
func (o Options) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), o.RemoteTimeout)
}

func (o Options) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.RetryInitial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = o.RetryMax
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(o.MaxRetries)), ctx)
}

// retry runs op with the configured backoff, each attempt under its own
// remote timeout. Errors no retry can fix stop it early. Cancelling ctx
// stops further attempts but never the one in flight.
func (o Options) retry(ctx context.Context, op func(ctx context.Context) error) error {
	detached := context.WithoutCancel(ctx)
	return backoff.Retry(func() error {
		actx, cancel := o.remoteContext(detached)
		defer cancel()

		err := op(actx)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, o.backOff(ctx))
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, remote.ErrSessionExpired),
		errors.Is(err, remote.ErrUserDeleted),
		errors.Is(err, remote.ErrForbidden),
		errors.Is(err, remote.ErrInvalidCredentials),
		errors.Is(err, remote.ErrAlreadyRegistered):
		return false
	}
	return true
}
