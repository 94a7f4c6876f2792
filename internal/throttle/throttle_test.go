package throttle

import (
	"context"
	"testing"
	"time"
)

func newTestLimiter() (*Limiter, *time.Time) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(NewMemoryStore(), 5, 15*time.Minute)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRecordFailureCountsDown(t *testing.T) {
	l, _ := newTestLimiter()
	ctx := context.Background()

	// 前 4 次失败：未锁定，剩余次数递减至 1
	for i := 1; i <= 4; i++ {
		st, err := l.RecordFailure(ctx, "865-123-4567")
		if err != nil {
			t.Fatalf("第 %d 次失败记录出错: %v", i, err)
		}
		if st.Locked {
			t.Fatalf("第 %d 次失败不应锁定", i)
		}
		if st.AttemptsRemaining != 5-i {
			t.Errorf("第 %d 次失败后期望剩余 %d 次，实际=%d", i, 5-i, st.AttemptsRemaining)
		}
	}

	// 第 5 次失败：锁定，剩余分钟数在 (0, 15] 区间
	st, err := l.RecordFailure(ctx, "865-123-4567")
	if err != nil {
		t.Fatalf("第 5 次失败记录出错: %v", err)
	}
	if !st.Locked {
		t.Fatal("第 5 次失败应进入锁定")
	}
	if st.RemainingMinutes < 1 || st.RemainingMinutes > 15 {
		t.Errorf("锁定剩余分钟数应在 1~15 之间，实际=%d", st.RemainingMinutes)
	}
}

func TestLockedStatusAndExpiry(t *testing.T) {
	l, now := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.RecordFailure(ctx, "k"); err != nil {
			t.Fatal(err)
		}
	}

	st, err := l.Check(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Locked || st.RemainingMinutes != 15 {
		t.Errorf("期望锁定且剩余 15 分钟，实际=%+v", st)
	}

	// 过 14 分钟：仍锁定，剩余 1 分钟
	*now = now.Add(14 * time.Minute)
	st, _ = l.Check(ctx, "k")
	if !st.Locked || st.RemainingMinutes != 1 {
		t.Errorf("14 分钟后期望仍锁定且剩余 1 分钟，实际=%+v", st)
	}

	// 再过 1 分钟：锁定过期，记录清空
	*now = now.Add(time.Minute)
	st, _ = l.Check(ctx, "k")
	if st.Locked {
		t.Error("锁定到期后不应仍处于锁定状态")
	}
	if st.AttemptsRemaining != 5 {
		t.Errorf("锁定到期后应重置为 5 次机会，实际=%d", st.AttemptsRemaining)
	}
}

func TestRemainingMinutesRoundsUp(t *testing.T) {
	l, now := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.RecordFailure(ctx, "k"); err != nil {
			t.Fatal(err)
		}
	}

	// 剩余 30 秒也按 1 分钟计
	*now = now.Add(14*time.Minute + 30*time.Second)
	st, _ := l.Check(ctx, "k")
	if !st.Locked || st.RemainingMinutes != 1 {
		t.Errorf("剩余 30 秒应显示 1 分钟，实际=%+v", st)
	}
}

func TestClearOnSuccess(t *testing.T) {
	l, _ := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := l.RecordFailure(ctx, "k"); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.ClearOnSuccess(ctx, "k"); err != nil {
		t.Fatal(err)
	}

	st, _ := l.Check(ctx, "k")
	if st.AttemptsRemaining != 5 {
		t.Errorf("清空后应重置为 5 次机会，实际=%d", st.AttemptsRemaining)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.RecordFailure(ctx, "a"); err != nil {
			t.Fatal(err)
		}
	}

	st, _ := l.Check(ctx, "b")
	if st.Locked || st.AttemptsRemaining != 5 {
		t.Errorf("不同标识的记录应互不影响，实际=%+v", st)
	}
}
