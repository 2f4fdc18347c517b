package model

import (
	"time"

	"gorm.io/gorm"
)

type Test struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Title       string `json:"title" gorm:"size:255;not null"`
	Description string `json:"description,omitempty" gorm:"size:1000"`
	// TimeLimit is in minutes; nil means the attempt is not timed.
	TimeLimit *int `json:"time_limit,omitempty"`
	// QuestionsPerAttempt caps how many questions one attempt shows; nil means all.
	QuestionsPerAttempt *int           `json:"questions_per_attempt,omitempty"`
	MaxScore            *float64       `json:"max_score,omitempty"`
	Questions           []Question     `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	Results             []TestResult   `json:"results,omitempty" gorm:"foreignKey:TestID"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}
