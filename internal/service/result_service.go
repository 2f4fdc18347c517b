package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/jinzhu/copier"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ResultService interface {
	// GetUserResult returns a result detail view scoped to its owner.
	GetUserResult(userID, resultID uint) (*dto.ResultDetailDTO, error)
	// GetResult is the unscoped admin view of any result.
	GetResult(resultID uint) (*dto.ResultDetailDTO, error)
	// GetTestResults lists a test's completed attempts, best score first,
	// with max/avg/min recomputed on every call.
	GetTestResults(testID uint) (*dto.TestResultsDTO, error)
	GetUserResultsForTest(userID, testID uint) ([]dto.ResultSummaryDTO, error)
}

type resultService struct {
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
}

func NewResultService(testRepo repository.TestRepository, resultRepo repository.ResultRepository) ResultService {
	return &resultService{testRepo: testRepo, resultRepo: resultRepo}
}

func (s *resultService) GetUserResult(userID, resultID uint) (*dto.ResultDetailDTO, error) {
	detail, err := s.loadDetail(resultID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userID {
		// Someone else's result looks the same as a missing one to the caller.
		return nil, fmt.Errorf("result %d: %w", resultID, ErrNotFound)
	}
	return detail, nil
}

func (s *resultService) GetResult(resultID uint) (*dto.ResultDetailDTO, error) {
	return s.loadDetail(resultID)
}

func (s *resultService) GetTestResults(testID uint) (*dto.TestResultsDTO, error) {
	test, err := s.testRepo.FindByID(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}

	results, err := s.resultRepo.FindCompletedByTest(testID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("GetTestResults: failed to load results")
		return nil, fmt.Errorf("loading results for test %d: %w", testID, err)
	}

	maxScore, avgScore, minScore := aggregateScores(test, results)

	rows := make([]dto.TestResultRowDTO, 0, len(results))
	for _, r := range results {
		rows = append(rows, dto.TestResultRowDTO{
			ID:           r.ID,
			UserID:       r.UserID,
			UserFullName: r.User.FullName,
			TabNumber:    r.User.TabNumber,
			StartedAt:    r.StartedAt,
			PassedAt:     r.PassedAt,
			Score:        r.Score,
		})
	}

	return &dto.TestResultsDTO{
		TestID:    test.ID,
		TestTitle: test.Title,
		MaxScore:  maxScore,
		AvgScore:  avgScore,
		MinScore:  minScore,
		Results:   rows,
	}, nil
}

func (s *resultService) GetUserResultsForTest(userID, testID uint) ([]dto.ResultSummaryDTO, error) {
	results, err := s.resultRepo.FindCompletedByUserAndTest(userID, testID)
	if err != nil {
		return nil, fmt.Errorf("loading results for test %d: %w", testID, err)
	}
	summaries := make([]dto.ResultSummaryDTO, 0, len(results))
	for _, r := range results {
		var summary dto.ResultSummaryDTO
		if err := copier.Copy(&summary, &r); err != nil {
			return nil, fmt.Errorf("preparing result summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *resultService) loadDetail(resultID uint) (*dto.ResultDetailDTO, error) {
	res, err := s.resultRepo.FindByIDWithDetails(resultID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("result %d: %w", resultID, ErrNotFound)
	}
	if err != nil {
		log.Error().Err(err).Uint("resultID", resultID).Msg("GetResult: failed to load result")
		return nil, fmt.Errorf("loading result %d: %w", resultID, err)
	}

	detail := &dto.ResultDetailDTO{
		ID:           res.ID,
		TestID:       res.TestID,
		TestTitle:    res.Test.Title,
		UserID:       res.UserID,
		UserFullName: res.User.FullName,
		StartedAt:    res.StartedAt,
		PassedAt:     res.PassedAt,
		Score:        res.Score,
	}
	for _, ua := range res.Answers {
		detail.Answers = append(detail.Answers, dto.ResultAnswerDTO{
			QuestionID:   ua.QuestionID,
			QuestionText: ua.Question.Text,
			AnswerID:     ua.AnswerID,
			AnswerText:   ua.Answer.Text,
			IsCorrect:    ua.Answer.IsCorrect,
			Score:        ua.Answer.Score,
		})
	}
	return detail, nil
}

// aggregateScores computes the stats block for a test's completed attempts.
// An explicitly configured max on the test wins when present and non-zero;
// otherwise the best observed score is used. Average is rounded to two
// decimal places. Everything defaults to zero when no attempt exists.
func aggregateScores(test *model.Test, results []model.TestResult) (maxScore, avgScore, minScore float64) {
	if test.MaxScore != nil && *test.MaxScore != 0 {
		maxScore = *test.MaxScore
	} else {
		for _, r := range results {
			if r.Score > maxScore {
				maxScore = r.Score
			}
		}
	}
	if len(results) == 0 {
		return maxScore, 0, 0
	}
	sum := 0.0
	minScore = results[0].Score
	for _, r := range results {
		sum += r.Score
		if r.Score < minScore {
			minScore = r.Score
		}
	}
	avgScore = math.Round(sum/float64(len(results))*100) / 100
	return maxScore, avgScore, minScore
}

// MaxPossibleScore is the best total a taker could reach: the sum over all
// questions of the highest-scoring answer, rounded to two decimals.
func MaxPossibleScore(test *model.Test) float64 {
	total := 0.0
	for _, q := range test.Questions {
		best := 0.0
		for _, a := range q.Answers {
			if a.Score > best {
				best = a.Score
			}
		}
		total += best
	}
	return math.Round(total*100) / 100
}
