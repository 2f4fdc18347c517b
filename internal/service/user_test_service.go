package service

import (
	"errors"
	"fmt"

	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UserTestService serves the test-taker's read-only views: the test list, the
// pre-attempt overview and the dashboard. None of them expose answer scores
// or correctness flags.
type UserTestService interface {
	GetAllTests() ([]dto.TestSummaryDTO, error)
	GetTestOverview(testID uint) (*dto.TestSummaryDTO, error)
	GetDashboard(userID uint) (*dto.DashboardDTO, error)
}

type userTestService struct {
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
	userRepo   repository.UserRepository
}

func NewUserTestService(
	testRepo repository.TestRepository,
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
) UserTestService {
	return &userTestService{testRepo: testRepo, resultRepo: resultRepo, userRepo: userRepo}
}

func (s *userTestService) GetAllTests() ([]dto.TestSummaryDTO, error) {
	testsWithCount, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("GetAllTests: failed to load tests")
		return nil, fmt.Errorf("loading tests: %w", err)
	}
	summaries := make([]dto.TestSummaryDTO, 0, len(testsWithCount))
	for _, twc := range testsWithCount {
		summaries = append(summaries, dto.TestSummaryDTO{
			ID:                  twc.Test.ID,
			Title:               twc.Test.Title,
			Description:         twc.Test.Description,
			TimeLimit:           twc.Test.TimeLimit,
			QuestionsPerAttempt: twc.Test.QuestionsPerAttempt,
			QuestionCount:       twc.QuestionCount,
			CreatedAt:           twc.Test.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *userTestService) GetTestOverview(testID uint) (*dto.TestSummaryDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	count, err := s.testRepo.CountQuestions(testID)
	if err != nil {
		return nil, fmt.Errorf("counting questions for test %d: %w", testID, err)
	}
	return &dto.TestSummaryDTO{
		ID:                  test.ID,
		Title:               test.Title,
		Description:         test.Description,
		TimeLimit:           test.TimeLimit,
		QuestionsPerAttempt: test.QuestionsPerAttempt,
		QuestionCount:       int(count),
		CreatedAt:           test.CreatedAt,
	}, nil
}

// GetDashboard lists every test with its maximum achievable score and the
// user's most recent attempt on it.
func (s *userTestService) GetDashboard(userID uint) (*dto.DashboardDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}

	tests, err := s.testRepo.FindAllWithQuestionsAndAnswers()
	if err != nil {
		log.Error().Err(err).Msg("GetDashboard: failed to load tests")
		return nil, fmt.Errorf("loading tests: %w", err)
	}

	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("loading results for user %d: %w", userID, err)
	}
	// Results come newest first, so the first one per test is the latest.
	latestByTest := make(map[uint]dto.ResultSummaryDTO)
	for _, r := range results {
		if _, ok := latestByTest[r.TestID]; ok {
			continue
		}
		latestByTest[r.TestID] = dto.ResultSummaryDTO{
			ID:        r.ID,
			TestID:    r.TestID,
			UserID:    r.UserID,
			StartedAt: r.StartedAt,
			PassedAt:  r.PassedAt,
			Score:     r.Score,
		}
	}

	board := &dto.DashboardDTO{FullName: user.FullName}
	for _, t := range tests {
		entry := dto.DashboardTestDTO{
			ID:               t.ID,
			Title:            t.Title,
			Description:      t.Description,
			MaxPossibleScore: MaxPossibleScore(&t),
		}
		if last, ok := latestByTest[t.ID]; ok {
			lastCopy := last
			entry.LastResult = &lastCopy
		}
		board.Tests = append(board.Tests, entry)
	}
	return board, nil
}
