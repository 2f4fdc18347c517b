package service

import (
	"testing"
	"time"

	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) (AdminTestService, repository.TestRepository) {
	testRepo := repository.NewTestRepository(db)
	return NewAdminTestService(testRepo, repository.NewQuestionRepository(db)), testRepo
}

func TestCreateTestClampsTimeLimit(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)

	resp, err := svc.CreateTest(dto.TestSaveDTO{Title: "Long", TimeLimit: intPtr(500)})
	require.NoError(t, err)
	require.NotNil(t, resp.TimeLimit)
	assert.Equal(t, 240, *resp.TimeLimit)

	resp, err = svc.CreateTest(dto.TestSaveDTO{Title: "Untimed", TimeLimit: intPtr(0)})
	require.NoError(t, err)
	assert.Nil(t, resp.TimeLimit)

	resp, err = svc.CreateTest(dto.TestSaveDTO{Title: "Negative", TimeLimit: intPtr(-10)})
	require.NoError(t, err)
	assert.Nil(t, resp.TimeLimit)
}

func TestUpdateTestClampsQuestionsPerAttempt(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	test := seedTest(t, db, nil)
	for i := 0; i < 3; i++ {
		seedQuestion(t, db, test.ID, "q", 1.0, 0.0)
	}

	resp, err := svc.UpdateTest(test.ID, dto.TestSaveDTO{Title: test.Title, QuestionsPerAttempt: intPtr(99)})
	require.NoError(t, err)
	require.NotNil(t, resp.QuestionsPerAttempt)
	assert.Equal(t, 3, *resp.QuestionsPerAttempt)
}

func TestUpdateTestDropsSubsetWhenNoQuestions(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	test := seedTest(t, db, nil)

	resp, err := svc.UpdateTest(test.ID, dto.TestSaveDTO{Title: test.Title, QuestionsPerAttempt: intPtr(5)})
	require.NoError(t, err)
	assert.Nil(t, resp.QuestionsPerAttempt)
}

func TestAddQuestionRequiresTwoAnswers(t *testing.T) {
	db := newTestDB(t)
	svc, testRepo := newAdminService(db)
	test := seedTest(t, db, nil)

	_, err := svc.AddQuestion(test.ID, dto.QuestionSaveDTO{
		Text:         "Lonely",
		Answers:      []dto.AnswerSaveDTO{{Text: "only one", Score: 1}},
		CorrectIndex: 1,
	})
	assert.ErrorIs(t, err, ErrValidation)

	count, err := testRepo.CountQuestions(test.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count, "failed validation must persist nothing")
}

func TestAddQuestionCorrectIndexOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	test := seedTest(t, db, nil)

	payload := dto.QuestionSaveDTO{
		Text:         "Pick",
		Answers:      []dto.AnswerSaveDTO{{Text: "a"}, {Text: "b"}},
		CorrectIndex: 3,
	}
	_, err := svc.AddQuestion(test.ID, payload)
	assert.ErrorIs(t, err, ErrValidation)

	payload.CorrectIndex = 0
	_, err = svc.AddQuestion(test.ID, payload)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddQuestionMarksCorrectAnswer(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	test := seedTest(t, db, nil)

	resp, err := svc.AddQuestion(test.ID, dto.QuestionSaveDTO{
		Text:         "Pick",
		Answers:      []dto.AnswerSaveDTO{{Text: "wrong", Score: 0}, {Text: "right", Score: 2}},
		CorrectIndex: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Answers, 2)
	assert.False(t, resp.Answers[0].IsCorrect)
	assert.True(t, resp.Answers[1].IsCorrect)
	assert.Equal(t, 2.0, resp.Answers[1].Score)
}

func TestUpdateQuestionReplacesAnswerSet(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	test := seedTest(t, db, nil)
	question := seedQuestion(t, db, test.ID, "old", 1.0, 0.0)
	oldAnswerIDs := []uint{question.Answers[0].ID, question.Answers[1].ID}

	resp, err := svc.UpdateQuestion(question.ID, dto.QuestionSaveDTO{
		Text:         "new text",
		Answers:      []dto.AnswerSaveDTO{{Text: "x", Score: 1}, {Text: "y"}, {Text: "z"}},
		CorrectIndex: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "new text", resp.Text)
	assert.Len(t, resp.Answers, 3)

	var liveCount int64
	require.NoError(t, db.Model(&model.Answer{}).Where("question_id = ?", question.ID).Count(&liveCount).Error)
	assert.EqualValues(t, 3, liveCount)

	var stale int64
	require.NoError(t, db.Model(&model.Answer{}).Where("id IN ?", oldAnswerIDs).Count(&stale).Error)
	assert.EqualValues(t, 0, stale)
}

func TestDeleteQuestionReturnsOwningTest(t *testing.T) {
	db := newTestDB(t)
	svc, testRepo := newAdminService(db)
	test := seedTest(t, db, nil)
	question := seedQuestion(t, db, test.ID, "q", 1.0, 0.0)

	testID, err := svc.DeleteQuestion(question.ID)
	require.NoError(t, err)
	assert.Equal(t, test.ID, testID)

	count, err := testRepo.CountQuestions(test.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDeleteTestCascades(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)
	user := seedUser(t, db, "taker")
	test := seedTest(t, db, nil)
	question := seedQuestion(t, db, test.ID, "q", 1.0, 0.0)

	passed := time.Now().UTC()
	res := &model.TestResult{
		UserID:    user.ID,
		TestID:    test.ID,
		StartedAt: passed.Add(-time.Minute),
		PassedAt:  &passed,
		Score:     1,
	}
	require.NoError(t, db.Create(res).Error)
	require.NoError(t, db.Create(&model.UserAnswer{
		ResultID:   res.ID,
		QuestionID: question.ID,
		AnswerID:   question.Answers[0].ID,
	}).Error)

	require.NoError(t, svc.DeleteTest(test.ID))

	for table, m := range map[string]interface{}{
		"questions":    &model.Question{},
		"answers":      &model.Answer{},
		"test_results": &model.TestResult{},
		"user_answers": &model.UserAnswer{},
	} {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.EqualValues(t, 0, count, "expected %s to be empty", table)
	}

	err := svc.DeleteTest(test.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownTest(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAdminService(db)

	assert.ErrorIs(t, svc.DeleteTest(404), ErrNotFound)
}
