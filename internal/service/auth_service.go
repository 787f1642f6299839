package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gin-gorm-user-service/internal/core/auth"
	"gin-gorm-user-service/internal/domain"
)

type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type AuthService struct {
	users   *UserService
	repo    domain.UserRepository
	hasher  PasswordHasher
	jwt     *auth.JWTer
	revoker auth.Revoker
}

func NewAuthService(users *UserService, repo domain.UserRepository, hasher PasswordHasher, j *auth.JWTer, rv auth.Revoker) *AuthService {
	return &AuthService{users: users, repo: repo, hasher: hasher, jwt: j, revoker: rv}
}

func (a *AuthService) SignUp(ctx context.Context, in domain.NewUser) (*Session, error) {
	u, err := a.users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return a.session(u)
}

// SignIn 邮箱不存在与密码错误返回同一错误
func (a *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := a.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !a.hasher.Check(password, u.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return a.session(u)
}

// SignOut 注销 token，记录保留到 Parse 不再接受它为止
func (a *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	c, err := a.jwt.Parse(token)
	if err != nil {
		return fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if err := a.revoker.Revoke(ctx, c.ID, a.jwt.AcceptedUntil(c)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (a *AuthService) session(u *domain.User) (*Session, error) {
	tok, c, err := a.jwt.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, ExpiresAt: c.ExpiresAt.Time, User: u}, nil
}
