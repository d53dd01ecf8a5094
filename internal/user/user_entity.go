package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"column:name;type:varchar(255)"`
	Email    string    `gorm:"column:email;type:text;not null;uniqueIndex"`
	Password string    `gorm:"column:password;type:text;not null"`
	Role     string    `gorm:"column:role;type:varchar(50);default:employee"`

	// JoinedAt adalah tanggal mulai kerja; jatah cuti dihitung dari sini.
	JoinedAt time.Time `gorm:"column:joined_at;not null"`

	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}
