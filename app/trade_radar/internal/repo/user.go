package repo

import (
	"context"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

// UserRepo 用户仓库接口
type UserRepo interface {
	// GetUserByUsername 根据用户名获取用户，不存在时返回 NotFound
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
