package repository

import (
	"errors"
	"time"

	"github.com/otabekshirinov/testhub/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.TestResult) error
	FindByID(id uint) (*model.TestResult, error)
	FindByIDWithDetails(id uint) (*model.TestResult, error)
	FindOpenByUserAndTest(userID, testID uint) (*model.TestResult, error)
	FindCompletedByTest(testID uint) ([]model.TestResult, error)
	FindCompletedByUserAndTest(userID, testID uint) ([]model.TestResult, error)
	FindAllByUser(userID uint) ([]model.TestResult, error)
	Finalize(resultID uint, score float64, passedAt time.Time, answers []model.UserAnswer) (bool, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.TestResult) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByID(id uint) (*model.TestResult, error) {
	var result model.TestResult
	if err := r.db.First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindByIDWithDetails(id uint) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.
		Preload("User").
		Preload("Test").
		Preload("Answers.Question.Answers").
		Preload("Answers.Answer").
		First(&result, id).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindOpenByUserAndTest returns the single in-progress attempt for the pair,
// or (nil, nil) when none exists.
func (r *resultRepository) FindOpenByUserAndTest(userID, testID uint) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.
		Where("user_id = ? AND test_id = ? AND passed_at IS NULL", userID, testID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindCompletedByTest(testID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.
		Preload("User").
		Where("test_id = ? AND passed_at IS NOT NULL", testID).
		Order("score DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) FindCompletedByUserAndTest(userID, testID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.
		Where("user_id = ? AND test_id = ? AND passed_at IS NOT NULL", userID, testID).
		Order("passed_at DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) FindAllByUser(userID uint) ([]model.TestResult, error) {
	var results []model.TestResult
	err := r.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&results).Error
	return results, err
}

// Finalize closes an attempt exactly once. The score/passed_at update is a
// conditional write on "passed_at IS NULL"; when another submission already
// won, no rows match and (false, nil) is returned with nothing changed.
// Replacing the submitted answers happens inside the same transaction, so a
// finalized attempt and its answer rows are always consistent.
func (r *resultRepository) Finalize(resultID uint, score float64, passedAt time.Time, answers []model.UserAnswer) (bool, error) {
	completed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestResult{}).
			Where("id = ? AND passed_at IS NULL", resultID).
			Updates(map[string]interface{}{"score": score, "passed_at": passedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		completed = true
		if err := tx.Where("result_id = ?", resultID).Delete(&model.UserAnswer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].ResultID = resultID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return completed, err
}
