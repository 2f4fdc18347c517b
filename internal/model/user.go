package model

import (
	"time"
)

type User struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	FullName     string       `json:"full_name" gorm:"size:200;not null"`
	Username     string       `json:"username" gorm:"size:100;not null;uniqueIndex"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"`
	TabNumber    *string      `json:"tab_number,omitempty" gorm:"size:20"`
	IsAdmin      bool         `json:"is_admin" gorm:"default:false"`
	Results      []TestResult `json:"results,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
