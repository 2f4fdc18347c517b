package model

import (
	"time"
)

// TestResult is one user's pass through a test. PassedAt is nil while the
// attempt is in progress and is set exactly once on finalization; Score is
// meaningful only after that.
type TestResult struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	UserID    uint         `json:"user_id" gorm:"not null;index"`
	User      User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TestID    uint         `json:"test_id" gorm:"not null;index"`
	Test      Test         `json:"test,omitempty" gorm:"foreignKey:TestID"`
	StartedAt time.Time    `json:"started_at" gorm:"not null"`
	PassedAt  *time.Time   `json:"passed_at,omitempty"`
	Score     float64      `json:"score" gorm:"default:0"`
	Answers   []UserAnswer `json:"answers,omitempty" gorm:"foreignKey:ResultID"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Completed reports whether the attempt has been finalized.
func (r *TestResult) Completed() bool {
	return r.PassedAt != nil
}
