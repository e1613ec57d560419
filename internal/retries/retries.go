// Package retries waits for a storage backend's server to become reachable
// before a session store starts depending on it.
package retries

import (
	"context"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Policy describes how patiently to wait for a backend.
type Policy struct {
	// Backend names the backend in logs and errors, e.g. "redis".
	Backend string
	// Attempts is the number of health checks made before giving up.
	// Values below one mean a single check.
	Attempts int
	// InitialBackoff is the delay after the first failed check. It doubles
	// after every further failure, up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// WaitFor runs check until it succeeds, the Policy's attempts are used up or
// ctx is done. The last check error is returned, wrapped with the backend's
// name.
func (p Policy) WaitFor(
	ctx context.Context,
	check func(context.Context) error,
) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.InitialBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	for attempt := 1; ; attempt++ {
		err := check(ctx)
		if err == nil {
			if attempt > 1 {
				glog.Infof("%s reachable after %d attempts", p.Backend, attempt)
			}
			return nil
		}
		if attempt >= attempts {
			return errors.Wrapf(
				err,
				"%s still unreachable after %d attempt(s)",
				p.Backend,
				attempt,
			)
		}
		delay := jitter(backoff)
		glog.Warningf(
			"%s unreachable (attempt %d of %d); checking again in %s: %s",
			p.Backend,
			attempt,
			attempts,
			delay,
			err,
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return errors.Wrapf(ctx.Err(), "gave up waiting for %s", p.Backend)
		}
		backoff *= 2
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
}

// jitter picks a delay in [d/2, d) so that several clients started together
// don't check in lockstep.
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + time.Duration(rand.Int63n(int64(half)))
}
