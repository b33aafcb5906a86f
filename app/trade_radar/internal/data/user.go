package data

import (
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/repo"
)

func errUserNotFound() error {
	return errors.NotFound("USER_NOT_FOUND", "user not found")
}

// NewUserRepo 根据数据源类型选择用户仓库实现
func NewUserRepo(data *Data, logger log.Logger) (repo.UserRepo, error) {
	if data.db != nil {
		return newPgUserRepo(data.db, logger), nil
	}
	r, err := NewFileUserRepo(data.usersFile, logger)
	if err != nil {
		return nil, err
	}
	return r, nil
}
