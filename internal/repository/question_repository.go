package repository

import (
	"github.com/otabekshirinov/testhub/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindIDsByTestID(testID uint) ([]uint, error)
	FindByIDsWithAnswers(ids []uint) ([]model.Question, error)
	UpdateText(id uint, text string) error
	ReplaceAnswers(questionID uint, answers []model.Answer) error
	Delete(id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	// Creates the question's answers in the same insert via the association.
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.Preload("Answers").First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindIDsByTestID(testID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Question{}).
		Where("test_id = ?", testID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *questionRepository) FindByIDsWithAnswers(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.Preload("Answers").Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) UpdateText(id uint, text string) error {
	return r.db.Model(&model.Question{}).Where("id = ?", id).Update("text", text).Error
}

// ReplaceAnswers implements the edit-question semantics: the old answer set is
// dropped and the new one inserted, in one transaction.
func (r *questionRepository) ReplaceAnswers(questionID uint, answers []model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].QuestionID = questionID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a question together with its answers and any submitted
// answers that reference it.
func (r *questionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.UserAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}
