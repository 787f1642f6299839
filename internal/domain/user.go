package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser 创建用户的入参（Password 在进入存储层前已经是哈希）
type NewUser struct {
	Name     string
	Email    string
	Password string
}

// UserPatch 部分更新：nil 表示不修改
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, apply func(u *User) error) (*User, error)
	Delete(ctx context.Context, id string) error
}
