package repository

import (
	"errors"

	"github.com/otabekshirinov/testhub/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindByIDForQuestion(answerID, questionID uint) (*model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// FindByIDForQuestion resolves an answer id scoped to its question. An id that
// exists but belongs to another question does not resolve; (nil, nil) is
// returned so the caller can skip it as a stale or tampered submission.
func (r *answerRepository) FindByIDForQuestion(answerID, questionID uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.db.Where("id = ? AND question_id = ?", answerID, questionID).First(&answer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
