package model

import (
	"time"
)

// UserAnswer records which answer a user picked for one question of an
// attempt. At most one row per (result, question); submission replaces the
// whole set rather than updating in place.
type UserAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ResultID   uint      `json:"result_id" gorm:"not null;index"`
	QuestionID uint      `json:"question_id" gorm:"not null"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AnswerID   uint      `json:"answer_id" gorm:"not null"`
	Answer     Answer    `json:"answer,omitempty" gorm:"foreignKey:AnswerID"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
