package data

import (
	"database/sql"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	_ "github.com/lib/pq"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/conf"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"

	defaultUsersFile = "app/trade_radar/configs/users.yaml"
)

// Data 用户目录的数据源，db 只在 postgres 模式下非空
type Data struct {
	driver    string
	usersFile string
	db        *sql.DB
}

// NewData 按配置打开用户目录；未配置时使用默认的用户文件
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	helper := log.NewHelper(logger)

	driver, source := DriverFile, defaultUsersFile
	if c != nil && c.Database != nil {
		if c.Database.Driver != "" {
			driver = c.Database.Driver
		}
		if c.Database.Source != "" {
			source = c.Database.Source
		}
	}

	switch driver {
	case DriverFile:
		helper.Infof("using user file %s", source)
		return &Data{driver: driver, usersFile: source}, func() {}, nil

	case DriverPostgres:
		db, err := sql.Open(driver, source)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}

		if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			disabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to init users table: %w", err)
		}

		cleanup := func() {
			helper.Info("closing the data resources")
			db.Close()
		}
		return &Data{driver: driver, db: db}, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
