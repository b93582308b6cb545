package remap

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var errPending = errors.New("batch still running")

// WaitForBatch polls job id until no entries remain. It gives up with
// ErrTimeout after the configured number of polls and returns the context
// error if ctx is done first.
func (c *Client) WaitForBatch(ctx context.Context, id int) error {
	polls := 0
	op := func() error {
		polls++
		remaining, err := c.EntriesRemainingInBatch(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRemapping) {
				return backoff.Permanent(err)
			}
			c.logger.Debug("batch poll failed", zap.Int("job", id), zap.Error(err))
			return err
		}
		if remaining > 0 {
			c.logger.Debug("batch pending", zap.Int("job", id), zap.Int("remaining", remaining))
			return errPending
		}
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.pollInterval), uint64(c.maxPolls-1)),
		ctx,
	)

	err := backoff.Retry(op, b)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errPending):
		return fmt.Errorf("%w: job %d after %d polls", ErrTimeout, id, polls)
	default:
		return fmt.Errorf("wait for job %d: %w", id, err)
	}
}
