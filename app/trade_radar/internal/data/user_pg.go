package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/repo"
)

type pgUserRepo struct {
	db  *sql.DB
	log *log.Helper
}

func newPgUserRepo(db *sql.DB, logger log.Logger) repo.UserRepo {
	return &pgUserRepo{
		db:  db,
		log: log.NewHelper(logger),
	}
}

func (r *pgUserRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, disabled FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Disabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound()
		}
		return nil, err
	}
	return u, nil
}
