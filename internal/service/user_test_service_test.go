package service

import (
	"testing"
	"time"

	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserTestService(db *gorm.DB) UserTestService {
	return NewUserTestService(
		repository.NewTestRepository(db),
		repository.NewResultRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestGetTestOverviewHidesQuestionBodies(t *testing.T) {
	db := newTestDB(t)
	svc := newUserTestService(db)
	test := seedTest(t, db, &model.Test{Title: "Overview", TimeLimit: intPtr(15)})
	seedQuestion(t, db, test.ID, "q1", 1.0, 0.0)
	seedQuestion(t, db, test.ID, "q2", 1.0, 0.0)

	overview, err := svc.GetTestOverview(test.ID)
	require.NoError(t, err)
	assert.Equal(t, "Overview", overview.Title)
	assert.Equal(t, 2, overview.QuestionCount)
	require.NotNil(t, overview.TimeLimit)
	assert.Equal(t, 15, *overview.TimeLimit)
}

func TestGetTestOverviewUnknownTest(t *testing.T) {
	db := newTestDB(t)
	svc := newUserTestService(db)

	_, err := svc.GetTestOverview(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDashboardShowsLatestResultPerTest(t *testing.T) {
	db := newTestDB(t)
	svc := newUserTestService(db)
	user := seedUser(t, db, "taker")
	test := seedTest(t, db, nil)
	seedQuestion(t, db, test.ID, "q", 2.0, 0.0)
	seedQuestion(t, db, test.ID, "q", 3.0, 1.0)

	seedCompletedResult(t, db, user.ID, test.ID, 2)
	latest := seedCompletedResult(t, db, user.ID, test.ID, 5)
	// Newest attempt wins on the dashboard.
	require.NoError(t, db.Model(latest).Update("started_at", latest.StartedAt.Add(30*time.Minute)).Error)

	board, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.FullName, board.FullName)
	require.Len(t, board.Tests, 1)

	entry := board.Tests[0]
	assert.Equal(t, 5.0, entry.MaxPossibleScore)
	require.NotNil(t, entry.LastResult)
	assert.Equal(t, latest.ID, entry.LastResult.ID)
	assert.Equal(t, 5.0, entry.LastResult.Score)
}

func TestGetDashboardWithoutAttempts(t *testing.T) {
	db := newTestDB(t)
	svc := newUserTestService(db)
	user := seedUser(t, db, "fresh")
	seedTest(t, db, nil)

	board, err := svc.GetDashboard(user.ID)
	require.NoError(t, err)
	require.Len(t, board.Tests, 1)
	assert.Nil(t, board.Tests[0].LastResult)
}
