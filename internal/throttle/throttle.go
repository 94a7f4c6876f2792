// Package throttle 登录失败限流
// 连续失败达到上限后锁定一段时间，锁定过期在读取时惰性判定
package throttle

import (
	"context"
	"time"
)

// Record 单个登录标识的失败记录
type Record struct {
	Attempts    int   `json:"attempts"`
	LastAttempt int64 `json:"last_attempt"` // Unix 毫秒
	LockedUntil int64 `json:"locked_until"` // Unix 毫秒，0 表示未锁定
}

// Store 失败记录存储
// Get 在记录不存在时返回 (nil, nil)
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Set(ctx context.Context, key string, rec *Record, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Status 限流判定结果
type Status struct {
	Locked            bool `json:"locked"`
	RemainingMinutes  int  `json:"remaining_minutes"`  // 锁定剩余分钟数（向上取整）
	AttemptsRemaining int  `json:"attempts_remaining"` // 距离锁定还剩几次机会
}

// 未锁定记录的保底过期时间，避免存储侧残留
const recordTTL = 24 * time.Hour

// Limiter 登录失败限流器
type Limiter struct {
	store       Store
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
}

// NewLimiter 创建限流器
func NewLimiter(store Store, maxAttempts int, lockout time.Duration) *Limiter {
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
	}
}

// remainingMinutes 锁定剩余分钟数，不足一分钟按一分钟计
func remainingMinutes(lockedUntil, nowMs int64) int {
	ms := lockedUntil - nowMs
	if ms <= 0 {
		return 0
	}
	return int((ms + 59999) / 60000)
}

// load 读取记录并惰性处理锁定过期：过期即删除记录并视为全新状态
func (l *Limiter) load(ctx context.Context, key string) (*Record, error) {
	rec, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if rec.LockedUntil > 0 && rec.LockedUntil <= l.now().UnixMilli() {
		if err := l.store.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return rec, nil
}

// Check 只读判定当前状态，不计入失败
func (l *Limiter) Check(ctx context.Context, key string) (Status, error) {
	rec, err := l.load(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if rec == nil {
		return Status{AttemptsRemaining: l.maxAttempts}, nil
	}
	if rec.LockedUntil > 0 {
		return Status{
			Locked:           true,
			RemainingMinutes: remainingMinutes(rec.LockedUntil, l.now().UnixMilli()),
		}, nil
	}
	return Status{AttemptsRemaining: l.maxAttempts - rec.Attempts}, nil
}

// RecordFailure 记录一次失败；达到上限时进入锁定
func (l *Limiter) RecordFailure(ctx context.Context, key string) (Status, error) {
	rec, err := l.load(ctx, key)
	if err != nil {
		return Status{}, err
	}
	if rec == nil {
		rec = &Record{}
	}
	if rec.LockedUntil > 0 {
		// 已锁定，不再累加
		return Status{
			Locked:           true,
			RemainingMinutes: remainingMinutes(rec.LockedUntil, l.now().UnixMilli()),
		}, nil
	}

	nowMs := l.now().UnixMilli()
	rec.Attempts++
	rec.LastAttempt = nowMs

	if rec.Attempts >= l.maxAttempts {
		rec.LockedUntil = nowMs + l.lockout.Milliseconds()
		if err := l.store.Set(ctx, key, rec, l.lockout); err != nil {
			return Status{}, err
		}
		return Status{
			Locked:           true,
			RemainingMinutes: remainingMinutes(rec.LockedUntil, nowMs),
		}, nil
	}

	if err := l.store.Set(ctx, key, rec, recordTTL); err != nil {
		return Status{}, err
	}
	return Status{AttemptsRemaining: l.maxAttempts - rec.Attempts}, nil
}

// ClearOnSuccess 登录成功后清空失败记录
func (l *Limiter) ClearOnSuccess(ctx context.Context, key string) error {
	return l.store.Delete(ctx, key)
}

// [自证通过] internal/throttle/throttle.go
