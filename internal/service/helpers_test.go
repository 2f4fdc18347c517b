package service

import (
	"testing"

	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Question{},
		&model.Answer{},
		&model.TestResult{},
		&model.UserAnswer{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		FullName:     "User " + username,
		Username:     username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTest(t *testing.T, db *gorm.DB, test *model.Test) *model.Test {
	t.Helper()
	if test == nil {
		test = &model.Test{}
	}
	if test.Title == "" {
		test.Title = "Sample Test"
	}
	require.NoError(t, db.Create(test).Error)
	return test
}

// seedQuestion creates a question whose i-th answer carries scores[i]; the
// answer with the highest score is flagged correct.
func seedQuestion(t *testing.T, db *gorm.DB, testID uint, text string, scores ...float64) *model.Question {
	t.Helper()
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	question := &model.Question{TestID: testID, Text: text}
	for i, s := range scores {
		question.Answers = append(question.Answers, model.Answer{
			Text:      "option",
			Score:     s,
			IsCorrect: i == best,
		})
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
