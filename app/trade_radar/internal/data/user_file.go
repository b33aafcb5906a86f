package data

import (
	"context"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/trade_radar/app/trade_radar/internal/domain"
)

// UserFile users.yaml 的结构
type UserFile struct {
	Users []UserEntry `yaml:"users"`
}

// UserEntry 单个用户条目，密码只保存 bcrypt 哈希
type UserEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	Disabled     bool   `yaml:"disabled,omitempty"`
}

// FileUserRepo 启动时从 YAML 文件加载的只读用户目录
type FileUserRepo struct {
	users map[string]*domain.User
	log   *log.Helper
}

// LoadUserFile 读取用户文件，文件不存在时返回空目录
func LoadUserFile(path string) (*UserFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &UserFile{}, nil
		}
		return nil, fmt.Errorf("read user file: %w", err)
	}
	var f UserFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse user file %s: %w", path, err)
	}
	return &f, nil
}

// SaveUserFile 写回用户文件
func SaveUserFile(path string, f *UserFile) error {
	b, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// Upsert 新增或替换同名用户
func (f *UserFile) Upsert(e UserEntry) {
	for i := range f.Users {
		if f.Users[i].Username == e.Username {
			f.Users[i] = e
			return
		}
	}
	f.Users = append(f.Users, e)
}

// NewFileUserRepo 加载用户文件
func NewFileUserRepo(path string, logger log.Logger) (*FileUserRepo, error) {
	f, err := LoadUserFile(path)
	if err != nil {
		return nil, err
	}

	users := make(map[string]*domain.User, len(f.Users))
	for i, e := range f.Users {
		if e.Username == domain.GuestUsername || domain.ValidateUsername(e.Username) != nil {
			return nil, fmt.Errorf("user file %s: invalid username %q at index %d", path, e.Username, i)
		}
		if _, dup := users[e.Username]; dup {
			return nil, fmt.Errorf("user file %s: duplicate username %q", path, e.Username)
		}
		users[e.Username] = &domain.User{
			ID:           i + 1,
			Username:     e.Username,
			PasswordHash: e.PasswordHash,
			Disabled:     e.Disabled,
		}
	}

	r := &FileUserRepo{users: users, log: log.NewHelper(logger)}
	r.log.Infof("loaded %d users from %s", len(users), path)
	return r, nil
}

func (r *FileUserRepo) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, errUserNotFound()
	}
	cp := *u
	return &cp, nil
}
