package pacer

import (
	"context"
	"fmt"
)

// Guard couples a limiter with the operations it paces. Do runs the full
// cycle the limiter contract requires: wait for permission, attempt the
// operation, report the outcome. Using a Guard makes it impossible to
// forget the outcome report, which would silently break the backoff model.
type Guard struct {
	name    string
	wait    func() bool
	success func()
	failure func()
}

// NewGuard creates a guard over a standalone limiter. Limiters owned by a
// Manager should be guarded through Manager.Guard instead, which also
// routes metrics and the decision journal.
func NewGuard(limiter Limiter) *Guard {
	return &Guard{
		name:    limiter.Name(),
		wait:    limiter.Wait,
		success: limiter.RecordSuccess,
		failure: limiter.RecordFailure,
	}
}

// Do runs op under the guard's limiter.
//
// It returns ErrRefused (wrapped with the limiter name) when the limiter
// refuses the operation, the context error if ctx was already cancelled,
// or op's own error. Failures are reported to the limiter; a cancelled
// context before the attempt is not, since no operation ran.
func (g *Guard) Do(ctx context.Context, op func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !g.wait() {
		return fmt.Errorf("%w: %s", ErrRefused, g.name)
	}

	if err := op(ctx); err != nil {
		g.failure()
		return err
	}

	g.success()
	return nil
}

// Name returns the guarded limiter's name.
func (g *Guard) Name() string {
	return g.name
}
