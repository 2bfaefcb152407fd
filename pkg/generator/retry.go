package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// SleepFunc は再試行前の待機を行います。テストでは実時間を待たない実装に差し替えます。
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepContext は d だけ待機します。ctx が先に終了した場合はそのエラーを返します。
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier は固定間隔・回数上限つきの再試行ポリシーです。
type Retrier struct {
	MaxRetries int
	Interval   time.Duration
	Sleep      SleepFunc
}

// Outcome は DoWithRetry の実行結果です。
type Outcome struct {
	Attempts int
	LastErr  error
}

func (r Retrier) policy() backoff.BackOff {
	if r.MaxRetries <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(r.Interval), uint64(r.MaxRetries))
	b.Reset()
	return b
}

// DoWithRetry は op を最大 1+MaxRetries 回実行します。
// すべて失敗した場合はエラーを送出せず、ゼロ値と最後のエラーを Outcome で返します。
// 失敗を致命的とするかどうかは呼び出し側が判断します。
func DoWithRetry[T any](ctx context.Context, r Retrier, op func(ctx context.Context) (T, error)) (T, Outcome) {
	var zero T
	var out Outcome

	sleep := r.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	policy := r.policy()

	for {
		out.Attempts++
		v, err := op(ctx)
		if err == nil {
			out.LastErr = nil
			return v, out
		}
		out.LastErr = err
		slog.WarnContext(ctx, "Gemini呼び出しに失敗しました", "attempt", out.Attempts, "error", err)

		next := policy.NextBackOff()
		if next == backoff.Stop {
			return zero, out
		}
		slog.InfoContext(ctx, "再試行します", "attempt", out.Attempts+1, "wait", next)
		if err := sleep(ctx, next); err != nil {
			slog.WarnContext(ctx, "待機中にキャンセルされました", "error", err)
			return zero, out
		}
	}
}
