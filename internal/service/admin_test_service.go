package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxTimeLimitMinutes caps a test's configurable time limit.
const maxTimeLimitMinutes = 240

type AdminTestService interface {
	CreateTest(req dto.TestSaveDTO) (*dto.TestResponseDTO, error)
	UpdateTest(testID uint, req dto.TestSaveDTO) (*dto.TestResponseDTO, error)
	DeleteTest(testID uint) error
	GetTest(testID uint) (*dto.TestResponseDTO, error)
	ListTests() ([]dto.TestSummaryDTO, error)
	AddQuestion(testID uint, req dto.QuestionSaveDTO) (*dto.QuestionResponseDTO, error)
	UpdateQuestion(questionID uint, req dto.QuestionSaveDTO) (*dto.QuestionResponseDTO, error)
	// DeleteQuestion removes the question and returns the owning test id so
	// the caller can navigate back to the test view.
	DeleteQuestion(questionID uint) (uint, error)
}

type adminTestService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
}

func NewAdminTestService(testRepo repository.TestRepository, questionRepo repository.QuestionRepository) AdminTestService {
	return &adminTestService{testRepo: testRepo, questionRepo: questionRepo}
}

func (s *adminTestService) CreateTest(req dto.TestSaveDTO) (*dto.TestResponseDTO, error) {
	test := model.Test{
		Title:               req.Title,
		Description:         req.Description,
		TimeLimit:           clampTimeLimit(req.TimeLimit),
		QuestionsPerAttempt: positiveOrNil(req.QuestionsPerAttempt),
		MaxScore:            req.MaxScore,
	}
	if err := s.testRepo.Create(&test); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateTest: failed to create test")
		return nil, fmt.Errorf("creating test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Str("title", test.Title).Msg("CreateTest: test created")
	return testToResponse(&test), nil
}

func (s *adminTestService) UpdateTest(testID uint, req dto.TestSaveDTO) (*dto.TestResponseDTO, error) {
	test, err := s.findTest(testID)
	if err != nil {
		return nil, err
	}

	test.Title = req.Title
	test.Description = req.Description
	test.TimeLimit = clampTimeLimit(req.TimeLimit)
	test.MaxScore = req.MaxScore

	// Questions-per-attempt is clamped against the current pool size; with no
	// questions yet the value is ignored and the test shows all (none).
	qpa := positiveOrNil(req.QuestionsPerAttempt)
	if qpa != nil {
		total, err := s.testRepo.CountQuestions(testID)
		if err != nil {
			return nil, fmt.Errorf("counting questions for test %d: %w", testID, err)
		}
		if total > 0 {
			v := *qpa
			if v > int(total) {
				v = int(total)
			}
			if v < 1 {
				v = 1
			}
			qpa = &v
		} else {
			qpa = nil
		}
	}
	test.QuestionsPerAttempt = qpa

	if err := s.testRepo.Update(test); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("UpdateTest: failed to save test")
		return nil, fmt.Errorf("updating test %d: %w", testID, err)
	}
	return testToResponse(test), nil
}

func (s *adminTestService) DeleteTest(testID uint) error {
	if _, err := s.findTest(testID); err != nil {
		return err
	}
	if err := s.testRepo.Delete(testID); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("DeleteTest: failed to delete test")
		return fmt.Errorf("deleting test %d: %w", testID, err)
	}
	log.Info().Uint("testID", testID).Msg("DeleteTest: test deleted with questions, answers and results")
	return nil
}

func (s *adminTestService) GetTest(testID uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return testToResponse(test), nil
}

func (s *adminTestService) ListTests() ([]dto.TestSummaryDTO, error) {
	testsWithCount, err := s.testRepo.FindAllWithQuestionCount()
	if err != nil {
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

func (s *adminTestService) AddQuestion(testID uint, req dto.QuestionSaveDTO) (*dto.QuestionResponseDTO, error) {
	if _, err := s.findTest(testID); err != nil {
		return nil, err
	}
	answers, err := buildAnswers(req)
	if err != nil {
		return nil, err
	}

	question := model.Question{
		TestID:  testID,
		Text:    req.Text,
		Answers: answers,
	}
	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("AddQuestion: failed to create question")
		return nil, fmt.Errorf("creating question: %w", err)
	}
	log.Info().Uint("questionID", question.ID).Uint("testID", testID).Msg("AddQuestion: question created")
	return questionToResponse(&question), nil
}

func (s *adminTestService) UpdateQuestion(questionID uint, req dto.QuestionSaveDTO) (*dto.QuestionResponseDTO, error) {
	question, err := s.findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	answers, err := buildAnswers(req)
	if err != nil {
		return nil, err
	}

	if err := s.questionRepo.UpdateText(questionID, req.Text); err != nil {
		return nil, fmt.Errorf("updating question %d: %w", questionID, err)
	}
	if err := s.questionRepo.ReplaceAnswers(questionID, answers); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("UpdateQuestion: failed to replace answers")
		return nil, fmt.Errorf("replacing answers for question %d: %w", questionID, err)
	}

	question.Text = req.Text
	question.Answers = answers
	return questionToResponse(question), nil
}

func (s *adminTestService) DeleteQuestion(questionID uint) (uint, error) {
	question, err := s.findQuestion(questionID)
	if err != nil {
		return 0, err
	}
	if err := s.questionRepo.Delete(questionID); err != nil {
		log.Error().Err(err).Uint("questionID", questionID).Msg("DeleteQuestion: failed to delete question")
		return 0, fmt.Errorf("deleting question %d: %w", questionID, err)
	}
	return question.TestID, nil
}

func (s *adminTestService) findTest(testID uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return test, nil
}

func (s *adminTestService) findQuestion(questionID uint) (*model.Question, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading question %d: %w", questionID, err)
	}
	return question, nil
}

// buildAnswers validates the question payload and materializes the answer
// rows: at least two options, and CorrectIndex must address one of them.
// Nothing is persisted when validation fails.
func buildAnswers(req dto.QuestionSaveDTO) ([]model.Answer, error) {
	if len(req.Answers) < 2 {
		return nil, fmt.Errorf("a question needs at least two answers: %w", ErrValidation)
	}
	if req.CorrectIndex < 1 || req.CorrectIndex > len(req.Answers) {
		return nil, fmt.Errorf("correct_index %d is out of range 1..%d: %w", req.CorrectIndex, len(req.Answers), ErrValidation)
	}
	answers := make([]model.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = model.Answer{
			Text:      a.Text,
			Score:     a.Score,
			IsCorrect: i+1 == req.CorrectIndex,
		}
	}
	return answers, nil
}

// clampTimeLimit normalizes the minutes value: nil/0/negative mean unlimited,
// anything above the cap is cut to it.
func clampTimeLimit(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	limit := *v
	if limit > maxTimeLimitMinutes {
		limit = maxTimeLimitMinutes
	}
	return &limit
}

func positiveOrNil(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	val := *v
	return &val
}

func testToResponse(test *model.Test) *dto.TestResponseDTO {
	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, test); err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("failed to map test to response")
	}
	return &resp
}

func questionToResponse(question *model.Question) *dto.QuestionResponseDTO {
	var resp dto.QuestionResponseDTO
	if err := copier.Copy(&resp, question); err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("failed to map question to response")
	}
	return &resp
}
