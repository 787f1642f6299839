package user

import (
	"time"

	"gorm.io/gorm"

	"gin-gorm-user-service/internal/domain"
)

type UserModel struct {
	Seq          uint64 `gorm:"primaryKey;autoIncrement"`
	ID           string `gorm:"uniqueIndex;size:36;not null"`
	Email        string `gorm:"uniqueIndex;size:191;not null"`
	Name         string `gorm:"size:64;not null"`
	PasswordHash string `gorm:"size:100;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null"`
}

func (UserModel) TableName() string { return "users" }

func FromDomain(u *domain.User) *UserModel {
	return &UserModel{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(&UserModel{}) }
