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

type attemptFixture struct {
	db         *gorm.DB
	svc        AttemptService
	resultRepo repository.ResultRepository
	selections SelectionStore
}

func newAttemptFixture(t *testing.T) *attemptFixture {
	t.Helper()
	db := newTestDB(t)
	selections := NewSelectionStore()
	resultRepo := repository.NewResultRepository(db)
	svc := NewAttemptService(
		repository.NewTestRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		resultRepo,
		selections,
	)
	return &attemptFixture{db: db, svc: svc, resultRepo: resultRepo, selections: selections}
}

func (f *attemptFixture) backdateStart(t *testing.T, attemptID uint, d time.Duration) {
	t.Helper()
	err := f.db.Model(&model.TestResult{}).
		Where("id = ?", attemptID).
		Update("started_at", time.Now().UTC().Add(-d)).Error
	require.NoError(t, err)
}

func TestStartAttemptSelectsConfiguredSubset(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Go Basics", QuestionsPerAttempt: intPtr(4)})
	poolIDs := make(map[uint]bool)
	for i := 0; i < 10; i++ {
		q := seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)
		poolIDs[q.ID] = true
	}

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	require.Len(t, view.Questions, 4)
	seen := make(map[uint]bool)
	for _, q := range view.Questions {
		assert.True(t, poolIDs[q.ID], "question %d is not part of the test", q.ID)
		assert.False(t, seen[q.ID], "question %d offered twice", q.ID)
		seen[q.ID] = true
	}
}

func TestStartAttemptShowsAllQuestionsWhenNoSubsetConfigured(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	for i := 0; i < 3; i++ {
		seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)
	}

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	assert.Len(t, view.Questions, 3)
}

func TestStartAttemptClampsSubsetToPoolSize(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Tiny", QuestionsPerAttempt: intPtr(50)})
	for i := 0; i < 2; i++ {
		seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)
	}

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	assert.Len(t, view.Questions, 2)
}

func TestStartAttemptIsIdempotent(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Go Basics", QuestionsPerAttempt: intPtr(5)})
	for i := 0; i < 12; i++ {
		seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)
	}

	first, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	second, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	assert.Equal(t, first.AttemptID, second.AttemptID)
	assert.Equal(t, first.StartedAt, second.StartedAt)
	require.Len(t, second.Questions, len(first.Questions))
	for i := range first.Questions {
		// Question identity and order are stable; only the answer order inside
		// each question may differ between renders.
		assert.Equal(t, first.Questions[i].ID, second.Questions[i].ID)
		assert.ElementsMatch(t, first.Questions[i].Answers, second.Questions[i].Answers)
	}
}

func TestStartAttemptUnknownTest(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")

	_, err := f.svc.StartAttempt(user.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStartAttemptEmptyTest(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)

	_, err := f.svc.StartAttempt(user.ID, test.ID)
	assert.ErrorIs(t, err, ErrEmptyTest)
}

func TestSubmitAttemptScoresSelectedAnswers(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	q1 := seedQuestion(t, f.db, test.ID, "q1", 2.0, 0.0)
	q2 := seedQuestion(t, f.db, test.ID, "q2", 1.0, 0.0)
	q3 := seedQuestion(t, f.db, test.ID, "q3", 3.5, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	summary, err := f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{
		Answers: []dto.SelectedAnswerDTO{
			{QuestionID: q1.ID, AnswerID: q1.Answers[0].ID}, // 2.0
			{QuestionID: q2.ID, AnswerID: q2.Answers[1].ID}, // 0.0
			{QuestionID: q3.ID, AnswerID: q3.Answers[0].ID}, // 3.5
		},
	})
	require.NoError(t, err)

	assert.Equal(t, view.AttemptID, summary.ID)
	assert.Equal(t, 5.5, summary.Score)
	require.NotNil(t, summary.PassedAt)

	stored, err := f.resultRepo.FindByID(summary.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed())
	assert.Equal(t, 5.5, stored.Score)

	var answerCount int64
	require.NoError(t, f.db.Model(&model.UserAnswer{}).Where("result_id = ?", summary.ID).Count(&answerCount).Error)
	assert.EqualValues(t, 3, answerCount)

	_, ok := f.selections.Get(summary.ID)
	assert.False(t, ok, "selection should be dropped after finalization")
}

func TestSubmitAttemptWithoutOpenAttempt(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	_, err := f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitAttemptEmptyBeforeDeadlineKeepsAttemptOpen(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Timed", TimeLimit: intPtr(30)})
	seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	_, err = f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{})
	assert.ErrorIs(t, err, ErrNoAnswersSelected)

	open, err := f.resultRepo.FindOpenByUserAndTest(user.ID, test.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, view.AttemptID, open.ID)
}

func TestSubmitAttemptExpiredEmptySubmissionAutoCompletes(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Timed", TimeLimit: intPtr(1)})
	seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	f.backdateStart(t, view.AttemptID, 5*time.Minute)

	summary, err := f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Score)
	require.NotNil(t, summary.PassedAt)

	open, err := f.resultRepo.FindOpenByUserAndTest(user.ID, test.ID)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestSubmitAttemptRemainingTimeFloorsAtZero(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Timed", TimeLimit: intPtr(1)})
	seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	f.backdateStart(t, view.AttemptID, 10*time.Minute)

	again, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	require.NotNil(t, again.RemainingSeconds)
	assert.Equal(t, 0, *again.RemainingSeconds)
}

func TestSubmitAttemptSkipsAnswerFromAnotherQuestion(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	q1 := seedQuestion(t, f.db, test.ID, "q1", 2.0, 0.0)
	q2 := seedQuestion(t, f.db, test.ID, "q2", 1.5, 0.0)

	_, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	summary, err := f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{
		Answers: []dto.SelectedAnswerDTO{
			// q2's answer submitted under q1: not one of q1's options, so it
			// contributes nothing.
			{QuestionID: q1.ID, AnswerID: q2.Answers[0].ID},
			{QuestionID: q2.ID, AnswerID: q2.Answers[0].ID},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, summary.Score)

	var answerCount int64
	require.NoError(t, f.db.Model(&model.UserAnswer{}).Where("result_id = ?", summary.ID).Count(&answerCount).Error)
	assert.EqualValues(t, 1, answerCount)
}

func TestSubmitAttemptTwiceLeavesFirstResultUntouched(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	q := seedQuestion(t, f.db, test.ID, "q", 2.0, 0.0)

	_, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)

	submission := dto.AttemptSubmitDTO{
		Answers: []dto.SelectedAnswerDTO{{QuestionID: q.ID, AnswerID: q.Answers[0].ID}},
	}
	first, err := f.svc.SubmitAttempt(user.ID, test.ID, submission)
	require.NoError(t, err)

	_, err = f.svc.SubmitAttempt(user.ID, test.ID, submission)
	assert.Error(t, err)

	stored, err := f.resultRepo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Score, stored.Score)
	require.NotNil(t, stored.PassedAt)
	assert.Equal(t, first.PassedAt.Unix(), stored.PassedAt.Unix())
}

func TestSubmitAttemptLostSelectionBeforeDeadline(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	q := seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	f.selections.Delete(view.AttemptID)

	_, err = f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{
		Answers: []dto.SelectedAnswerDTO{{QuestionID: q.ID, AnswerID: q.Answers[0].ID}},
	})
	assert.ErrorIs(t, err, ErrNoAnswersSelected)
}

func TestSubmitAttemptLostSelectionAfterDeadlineAutoCompletes(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, &model.Test{Title: "Timed", TimeLimit: intPtr(1)})
	seedQuestion(t, f.db, test.ID, "q", 1.0, 0.0)

	view, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	f.selections.Delete(view.AttemptID)
	f.backdateStart(t, view.AttemptID, 5*time.Minute)

	summary, err := f.svc.SubmitAttempt(user.ID, test.ID, dto.AttemptSubmitDTO{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Score)
	require.NotNil(t, summary.PassedAt)
}

func TestStartAttemptSurvivesQuestionDeletedMidAttempt(t *testing.T) {
	f := newAttemptFixture(t)
	user := seedUser(t, f.db, "taker")
	test := seedTest(t, f.db, nil)
	q1 := seedQuestion(t, f.db, test.ID, "q1", 1.0, 0.0)
	seedQuestion(t, f.db, test.ID, "q2", 1.0, 0.0)

	first, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	require.Len(t, first.Questions, 2)

	require.NoError(t, f.db.Delete(&model.Question{}, q1.ID).Error)

	second, err := f.svc.StartAttempt(user.ID, test.ID)
	require.NoError(t, err)
	require.Len(t, second.Questions, 1)
	assert.NotEqual(t, q1.ID, second.Questions[0].ID)
}
