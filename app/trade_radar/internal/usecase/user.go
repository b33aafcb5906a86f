package usecase

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/repo"
)

const (
	ReasonUnauthenticated = "UNAUTHENTICATED"
	ReasonAuthFailed      = "AUTH_FAILED"

	defaultTokenTTL = 30 * time.Minute
)

// errUnauthenticated 所有凭证失败共用同一个对外错误，不暴露内部原因
func errUnauthenticated() error {
	return errors.Unauthorized(ReasonUnauthenticated, "Could not validate credentials")
}

// UserUseCase 用户业务逻辑：签发令牌、解析调用方身份
type UserUseCase struct {
	repo     repo.UserRepo
	log      *log.Helper
	jwtKey   string
	tokenTTL time.Duration
	now      func() time.Time
}

// NewUserUseCase 创建用户业务逻辑实例
func NewUserUseCase(repo repo.UserRepo, auth *conf.Auth, logger log.Logger) *UserUseCase {
	jwtKey := "default-secret"
	ttl := defaultTokenTTL
	if auth != nil {
		if auth.JwtKey != "" {
			jwtKey = auth.JwtKey
		}
		ttl = conf.Duration(auth.TokenTTL, defaultTokenTTL)
	}
	return &UserUseCase{
		repo:     repo,
		log:      log.NewHelper(logger),
		jwtKey:   jwtKey,
		tokenTTL: ttl,
		now:      time.Now,
	}
}

// Resolve 解析调用方身份。没有凭证时返回访客身份；凭证存在但无效、用户不存在或被禁用时返回 Unauthorized
func (uc *UserUseCase) Resolve(ctx context.Context, credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Guest(), nil
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(uc.jwtKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid {
		uc.log.WithContext(ctx).Warnf("token rejected: %v", err)
		return domain.Identity{}, errUnauthenticated()
	}
	if domain.ValidateUsername(claims.Subject) != nil {
		uc.log.WithContext(ctx).Warnf("token rejected: invalid subject %q", claims.Subject)
		return domain.Identity{}, errUnauthenticated()
	}

	u, err := uc.repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("token subject %q rejected: %v", claims.Subject, err)
		return domain.Identity{}, errUnauthenticated()
	}
	if u.Disabled {
		uc.log.WithContext(ctx).Warnf("token subject %q rejected: inactive user", claims.Subject)
		return domain.Identity{}, errUnauthenticated()
	}

	return domain.Identity{Username: u.Username}, nil
}

// Login 校验密码并签发访问令牌
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	u, err := uc.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.IsNotFound(err) {
			uc.log.WithContext(ctx).Errorf("lookup user %q: %v", username, err)
		}
		return "", time.Time{}, errors.Unauthorized(ReasonAuthFailed, "Incorrect username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, errors.Unauthorized(ReasonAuthFailed, "Incorrect username or password")
	}
	if u.Disabled {
		return "", time.Time{}, errors.Unauthorized(ReasonAuthFailed, "Inactive user")
	}
	return uc.IssueToken(u.Username)
}

// IssueToken 为用户签发 HS256 令牌
func (uc *UserUseCase) IssueToken(username string) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(uc.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(uc.jwtKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
