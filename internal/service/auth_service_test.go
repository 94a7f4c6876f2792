package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Faith-Promise-Church/growth-plan/config"
	"github.com/Faith-Promise-Church/growth-plan/internal/dto"
	"github.com/Faith-Promise-Church/growth-plan/internal/throttle"
	"github.com/Faith-Promise-Church/growth-plan/pkg/jwt"
)

func testAuthService(profiles *mockProfileRepo) *AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-0123456789abcdef",
			AccessTokenTTL:       15 * time.Minute,
			RefreshTokenTTL:      168 * time.Hour,
			LoginMaxAttempts:     5,
			LoginLockoutDuration: 15 * time.Minute,
		},
		Store: config.StoreConfig{CallTimeout: 10 * time.Second},
	}
	limiter := throttle.NewLimiter(throttle.NewMemoryStore(), 5, 15*time.Minute)
	return NewAuthService(cfg, profiles, jwt.NewManager(&cfg.Auth), limiter, newMockBlacklist(), zap.NewNop())
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		PhoneNumber:     "8651234567",
		Password:        "Abcd1234",
		ConfirmPassword: "Abcd1234",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if resp.Profile.PhoneNumber != "865-123-4567" {
		t.Errorf("注册时应格式化手机号，实际=%s", resp.Profile.PhoneNumber)
	}
	if resp.Token.AccessToken == "" || resp.Token.RefreshToken == "" {
		t.Error("注册成功应直接签发 Token 对")
	}

	// 原始数字串与格式化串都能登录
	login, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "8651234567", Password: "Abcd1234"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if login.Profile.UserID != resp.Profile.UserID {
		t.Error("登录返回的用户与注册不一致")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := testAuthService(newMockProfileRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		want   error
	}{
		{"手机号不合法", func(r *dto.RegisterRequest) { r.PhoneNumber = "123" }, ErrInvalidPhone},
		{"邮箱不合法", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"密码缺大写", func(r *dto.RegisterRequest) { r.Password = "abcd1234"; r.ConfirmPassword = "abcd1234" }, ErrPasswordPolicy},
		{"密码缺数字", func(r *dto.RegisterRequest) { r.Password = "Abcdefgh"; r.ConfirmPassword = "Abcdefgh" }, ErrPasswordPolicy},
		{"两次密码不一致", func(r *dto.RegisterRequest) { r.ConfirmPassword = "Abcd12345" }, ErrPasswordMismatch},
	}

	for _, c := range cases {
		req := registerReq()
		c.mutate(req)
		if _, err := svc.Register(ctx, req); !errors.Is(err, c.want) {
			t.Errorf("%s: 期望 %v，实际=%v", c.name, c.want, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Register(ctx, registerReq()); !errors.Is(err, ErrPhoneTaken) {
		t.Errorf("重复手机号期望 ErrPhoneTaken，实际=%v", err)
	}

	req := registerReq()
	req.PhoneNumber = "865-999-0000"
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱期望 ErrEmailTaken，实际=%v", err)
	}
}

func TestLoginLockoutAfterFiveFailures(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatal(err)
	}

	bad := &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Wrong123"}

	// 前 4 次：凭证错误，剩余次数递减
	for i := 1; i <= 4; i++ {
		_, err := svc.Login(ctx, bad)
		var badCreds *BadCredentialsError
		if !errors.As(err, &badCreds) {
			t.Fatalf("第 %d 次失败期望 BadCredentialsError，实际=%v", i, err)
		}
		if badCreds.AttemptsRemaining != 5-i {
			t.Errorf("第 %d 次失败后期望剩余 %d 次，实际=%d", i, 5-i, badCreds.AttemptsRemaining)
		}
	}

	// 第 5 次：触发锁定
	_, err := svc.Login(ctx, bad)
	var badCreds *BadCredentialsError
	if !errors.As(err, &badCreds) || !badCreds.Locked {
		t.Fatalf("第 5 次失败应触发锁定，实际=%v", err)
	}

	// 锁定期内即使密码正确也拒绝
	_, err = svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Abcd1234"})
	var locked *LockedError
	if !errors.As(err, &locked) {
		t.Fatalf("锁定期内登录期望 LockedError，实际=%v", err)
	}
	if locked.RemainingMinutes < 1 || locked.RemainingMinutes > 15 {
		t.Errorf("剩余分钟数应在 1~15，实际=%d", locked.RemainingMinutes)
	}
}

func TestLoginSuccessClearsFailures(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatal(err)
	}

	bad := &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Wrong123"}
	for i := 0; i < 3; i++ {
		svc.Login(ctx, bad)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Abcd1234"}); err != nil {
		t.Fatalf("正确密码应登录成功: %v", err)
	}

	// 成功后计数清零：再失败一次应回到剩余 4 次
	_, err := svc.Login(ctx, bad)
	var badCreds *BadCredentialsError
	if !errors.As(err, &badCreds) {
		t.Fatal(err)
	}
	if badCreds.AttemptsRemaining != 4 {
		t.Errorf("成功登录后失败计数应清零，期望剩余 4 次，实际=%d", badCreds.AttemptsRemaining)
	}
}

func TestLoginStoreFailureDoesNotCount(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatal(err)
	}

	// 存储故障：返回错误但不计入失败次数
	profiles.getErr = errors.New("connection refused")
	_, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Abcd1234"})
	if err == nil {
		t.Fatal("存储故障应返回错误")
	}
	var badCreds *BadCredentialsError
	if errors.As(err, &badCreds) {
		t.Error("存储故障不应视为凭证错误")
	}

	profiles.getErr = nil
	_, err = svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Wrong123"})
	if !errors.As(err, &badCreds) {
		t.Fatal(err)
	}
	if badCreds.AttemptsRemaining != 4 {
		t.Errorf("存储故障不应占用失败次数，期望剩余 4 次，实际=%d", badCreds.AttemptsRemaining)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatal(err)
	}

	pair, err := svc.Refresh(ctx, resp.Token.RefreshToken)
	if err != nil {
		t.Fatalf("刷新失败: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("刷新应返回新 Token 对")
	}

	// 旧 Refresh Token 一次性使用
	if _, err := svc.Refresh(ctx, resp.Token.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("旧 Refresh Token 复用期望 ErrRefreshInvalid，实际=%v", err)
	}

	// Access Token 不能当 Refresh Token 用
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("Access Token 刷新期望 ErrRefreshInvalid，实际=%v", err)
	}
}

func TestResetPasswordUniformReply(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq()); err != nil {
		t.Fatal(err)
	}

	// 存在与不存在的手机号都返回成功，防止账号探测
	if err := svc.ResetPassword(ctx, "865-123-4567"); err != nil {
		t.Errorf("已注册手机号期望成功，实际=%v", err)
	}
	if err := svc.ResetPassword(ctx, "865-999-9999"); err != nil {
		t.Errorf("未注册手机号也应返回成功，实际=%v", err)
	}
}

func TestChangePassword(t *testing.T) {
	profiles := newMockProfileRepo()
	svc := testAuthService(profiles)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq())
	if err != nil {
		t.Fatal(err)
	}
	userID := resp.Profile.UserID

	err = svc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		OldPassword: "Wrong123", NewPassword: "Efgh5678", ConfirmPassword: "Efgh5678",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("旧密码错误期望 ErrWrongPassword，实际=%v", err)
	}

	err = svc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		OldPassword: "Abcd1234", NewPassword: "Efgh5678", ConfirmPassword: "Efgh5678",
	})
	if err != nil {
		t.Fatalf("修改密码失败: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{PhoneNumber: "865-123-4567", Password: "Efgh5678"}); err != nil {
		t.Errorf("新密码应能登录: %v", err)
	}
}
