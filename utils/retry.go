package utils

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy: thử lại tối đa Attempts lần, lần thứ i chờ Delay*i (1s, 2s, 3s với mặc định)
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Delay: time.Second}

// permanentError đánh dấu lỗi không nên thử lại (validation, conflict...)
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry chạy op theo policy và trả về lỗi cuối cùng nếu mọi lần đều thất bại.
// Lỗi bọc bởi Permanent được trả về ngay (đã gỡ lớp bọc).
func (p RetryPolicy) Retry(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			if attempt > 1 {
				Log.Info("operation succeeded after retry", "op", name, "attempt", attempt)
			}
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			Log.Error("operation failed, giving up", "op", name, "attempts", attempts, "error", err)
			break
		}
		Log.Warn("operation failed, retrying", "op", name, "attempt", attempt, "max", attempts, "error", err)

		timer := time.NewTimer(p.Delay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
