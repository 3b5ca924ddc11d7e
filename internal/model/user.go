package model

import "time"

type UserRole string

const (
	Teacher UserRole = "teacher"
	Parent  UserRole = "parent"
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

type User struct {
	BaseModel
	Name     string     `gorm:"size:100;not null" json:"name"`
	Email    string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string     `gorm:"size:255;not null" json:"-"`
	Role     UserRole   `gorm:"type:enum('teacher','parent','student','admin');default:'student'" json:"role"`
	Avatar   string     `gorm:"size:512" json:"avatar"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
