package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"Inkle_Social/internal/model"
	"Inkle_Social/internal/pkg"
	"Inkle_Social/internal/repository/sqldb"
)

// TokenRevoker 登出 token 黑名单
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type UserService struct {
	db         *gorm.DB
	tokens     *pkg.TokenService
	revoker    TokenRevoker
	mailer     pkg.Mailer
	ownerEmail string
	log        *slog.Logger
}

type UserServiceOptions struct {
	Revoker    TokenRevoker // 可为空，为空时不支持登出
	Mailer     pkg.Mailer   // 可为空
	OwnerEmail string       // 使用该邮箱注册的账号成为 owner
	Logger     *slog.Logger
}

func NewUserService(db *gorm.DB, tokens *pkg.TokenService, opts UserServiceOptions) *UserService {
	if opts.Mailer == nil {
		opts.Mailer = pkg.NopMailer{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &UserService{
		db:         db,
		tokens:     tokens,
		revoker:    opts.Revoker,
		mailer:     opts.Mailer,
		ownerEmail: strings.ToLower(strings.TrimSpace(opts.OwnerEmail)),
		log:        opts.Logger,
	}
}

// Signup 注册
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	repo := &sqldb.UserRepository{DB: s.db}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, pkg.Conflict("Email already exists")
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, err
	}

	role := model.RoleUser
	if s.ownerEmail != "" && email == s.ownerEmail {
		role = model.RoleOwner
	}
	user := &model.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err = repo.Create(ctx, user); err != nil {
		if sqldb.IsDuplicate(err) {
			return nil, pkg.Conflict("Email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.sendWelcome(user)
	return user, nil
}

func (s *UserService) sendWelcome(user *model.User) {
	if _, ok := s.mailer.(pkg.NopMailer); ok {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, user.Email, "Welcome", pkg.WelcomeHTML(user.Name)); err != nil {
			s.log.Warn("welcome mail failed", "user_id", user.ID, "error", err)
		}
	}()
}

// Login 邮箱密码登录
func (s *UserService) Login(ctx context.Context, email, password string) (*pkg.Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := (&sqldb.UserRepository{DB: s.db}).FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !pkg.CheckPassword(password, user.Password) {
		return nil, pkg.Unauthorized("Invalid email or password")
	}
	return s.tokens.Issue(user.ID)
}

// Authenticate 校验 bearer token 并加载对应用户
func (s *UserService) Authenticate(ctx context.Context, tokenStr string) (*model.User, *pkg.Claims, error) {
	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		if errors.Is(err, pkg.ErrTokenExpired) {
			return nil, nil, pkg.Unauthorized("Invalid or expired token")
		}
		return nil, nil, pkg.Unauthorized("Invalid token")
	}

	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil, pkg.Unauthorized("Token has been revoked")
		}
	}

	uid, err := claims.UserID()
	if err != nil {
		return nil, nil, pkg.Unauthorized("Invalid token")
	}
	user, err := (&sqldb.UserRepository{DB: s.db}).FindByID(ctx, uid)
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, nil, pkg.Unauthorized("User no longer exists")
	}
	return user, claims, nil
}

// CanLogout 是否配置了 token 黑名单
func (s *UserService) CanLogout() bool { return s.revoker != nil }

// Logout 吊销当前 token
func (s *UserService) Logout(ctx context.Context, claims *pkg.Claims) error {
	if s.revoker == nil {
		return pkg.InvalidOperation("Logout is not enabled")
	}
	if claims == nil || claims.ExpiresAt == nil {
		return pkg.Unauthorized("Invalid token")
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
