package service

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/otabekshirinov/testhub/internal/dto"
	"github.com/otabekshirinov/testhub/internal/model"
	"github.com/otabekshirinov/testhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService drives the lifecycle of one attempt: begin/resume, question
// selection, server-side timing and the single finalizing submission.
type AttemptService interface {
	// StartAttempt returns the render view of the user's in-progress attempt
	// for the test, creating the attempt on first call. Calling it again
	// before submission returns the same attempt with the same questions in
	// the same order; only the answer order inside each question changes.
	StartAttempt(userID, testID uint) (*dto.AttemptViewDTO, error)
	// SubmitAttempt scores the submission and finalizes the attempt exactly
	// once. See the error kinds in errors.go for the guard conditions.
	SubmitAttempt(userID, testID uint, req dto.AttemptSubmitDTO) (*dto.ResultSummaryDTO, error)
}

type attemptService struct {
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	resultRepo   repository.ResultRepository
	selections   SelectionStore
}

func NewAttemptService(
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	resultRepo repository.ResultRepository,
	selections SelectionStore,
) AttemptService {
	return &attemptService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		resultRepo:   resultRepo,
		selections:   selections,
	}
}

func (s *attemptService) StartAttempt(userID, testID uint) (*dto.AttemptViewDTO, error) {
	test, err := s.findTest(testID)
	if err != nil {
		return nil, err
	}

	res, err := s.beginAttempt(userID, testID)
	if err != nil {
		return nil, err
	}

	selectedIDs, err := s.selectQuestions(res.ID, test)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.FindByIDsWithAnswers(selectedIDs)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", res.ID).Msg("StartAttempt: failed to load selected questions")
		return nil, fmt.Errorf("loading questions for attempt %d: %w", res.ID, err)
	}

	view := &dto.AttemptViewDTO{
		AttemptID:        res.ID,
		TestID:           test.ID,
		TestTitle:        test.Title,
		StartedAt:        res.StartedAt,
		TimeLimitSeconds: timeLimitSeconds(test),
		RemainingSeconds: remainingSeconds(test, res),
		Questions:        buildAttemptQuestions(selectedIDs, questions),
	}
	return view, nil
}

func (s *attemptService) SubmitAttempt(userID, testID uint, req dto.AttemptSubmitDTO) (*dto.ResultSummaryDTO, error) {
	test, err := s.findTest(testID)
	if err != nil {
		return nil, err
	}

	res, err := s.resultRepo.FindOpenByUserAndTest(userID, testID)
	if err != nil {
		return nil, fmt.Errorf("looking up open attempt: %w", err)
	}
	if res == nil {
		return nil, fmt.Errorf("no attempt in progress for test %d: %w", testID, ErrNotFound)
	}

	now := time.Now().UTC()
	expired := false
	if test.TimeLimit != nil {
		elapsedMinutes := now.Sub(res.StartedAt).Minutes()
		expired = elapsedMinutes >= float64(*test.TimeLimit)
	}

	selectedIDs, ok := s.selections.Get(res.ID)
	if !ok || len(selectedIDs) == 0 {
		// Session state is gone (expired session, restart). Without the
		// offered question set there is nothing to score against.
		count, cntErr := s.testRepo.CountQuestions(testID)
		if cntErr != nil {
			return nil, fmt.Errorf("counting questions for test %d: %w", testID, cntErr)
		}
		if count == 0 {
			return nil, fmt.Errorf("test %d: %w", testID, ErrEmptyTest)
		}
		if expired {
			return s.finalize(res, 0, now, nil)
		}
		return nil, ErrNoAnswersSelected
	}

	chosen := make(map[uint]uint, len(req.Answers))
	for _, sel := range req.Answers {
		chosen[sel.QuestionID] = sel.AnswerID
	}

	anySelected := false
	for _, qid := range selectedIDs {
		if _, ok := chosen[qid]; ok {
			anySelected = true
			break
		}
	}
	if !anySelected {
		if expired {
			// Time ran out and nothing was answered: close the attempt with
			// zero instead of bouncing the user back forever.
			log.Info().Uint("attemptID", res.ID).Msg("SubmitAttempt: time limit expired with no answers, auto-completing with zero score")
			return s.finalize(res, 0, now, nil)
		}
		return nil, ErrNoAnswersSelected
	}

	score := 0.0
	var userAnswers []model.UserAnswer
	for _, qid := range selectedIDs {
		answerID, ok := chosen[qid]
		if !ok {
			continue
		}
		answer, err := s.answerRepo.FindByIDForQuestion(answerID, qid)
		if err != nil {
			return nil, fmt.Errorf("resolving answer %d for question %d: %w", answerID, qid, err)
		}
		if answer == nil {
			// Stale or tampered id: skip by policy, but leave an audit trail.
			log.Warn().
				Uint("attemptID", res.ID).
				Uint("questionID", qid).
				Uint("answerID", answerID).
				Msg("SubmitAttempt: submitted answer does not belong to question, skipping")
			continue
		}
		score += answer.Score
		userAnswers = append(userAnswers, model.UserAnswer{
			ResultID:   res.ID,
			QuestionID: qid,
			AnswerID:   answer.ID,
		})
	}

	return s.finalize(res, score, now, userAnswers)
}

// finalize performs the atomic close of the attempt and clears its stored
// selection. Losing the conditional update means another submission finalized
// first; the stored result is left untouched.
func (s *attemptService) finalize(res *model.TestResult, score float64, passedAt time.Time, answers []model.UserAnswer) (*dto.ResultSummaryDTO, error) {
	completed, err := s.resultRepo.Finalize(res.ID, score, passedAt, answers)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", res.ID).Msg("SubmitAttempt: failed to finalize attempt")
		return nil, fmt.Errorf("finalizing attempt %d: %w", res.ID, err)
	}
	if !completed {
		return nil, &AlreadyCompletedError{ResultID: res.ID}
	}
	s.selections.Delete(res.ID)

	log.Info().Uint("attemptID", res.ID).Float64("score", score).Msg("SubmitAttempt: attempt finalized")
	return &dto.ResultSummaryDTO{
		ID:        res.ID,
		TestID:    res.TestID,
		UserID:    res.UserID,
		StartedAt: res.StartedAt,
		PassedAt:  &passedAt,
		Score:     score,
	}, nil
}

// beginAttempt reuses the open attempt for (user, test) or creates one, so a
// page refresh never spawns a second open attempt.
func (s *attemptService) beginAttempt(userID, testID uint) (*model.TestResult, error) {
	res, err := s.resultRepo.FindOpenByUserAndTest(userID, testID)
	if err != nil {
		return nil, fmt.Errorf("looking up open attempt: %w", err)
	}
	if res != nil {
		return res, nil
	}
	res = &model.TestResult{
		UserID:    userID,
		TestID:    testID,
		StartedAt: time.Now().UTC(),
	}
	if err := s.resultRepo.Create(res); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("testID", testID).Msg("StartAttempt: failed to create attempt")
		return nil, fmt.Errorf("creating attempt: %w", err)
	}
	log.Info().Uint("attemptID", res.ID).Uint("userID", userID).Uint("testID", testID).Msg("StartAttempt: new attempt started")
	return res, nil
}

// selectQuestions returns the attempt's stored selection, drawing and storing
// a fresh random sample on the first render. The stored list keeps the
// question set and order stable even if the test's pool changes mid-attempt.
func (s *attemptService) selectQuestions(attemptID uint, test *model.Test) ([]uint, error) {
	if ids, ok := s.selections.Get(attemptID); ok && len(ids) > 0 {
		return ids, nil
	}

	allIDs, err := s.questionRepo.FindIDsByTestID(test.ID)
	if err != nil {
		return nil, fmt.Errorf("loading question ids for test %d: %w", test.ID, err)
	}
	total := len(allIDs)
	if total == 0 {
		return nil, fmt.Errorf("test %d: %w", test.ID, ErrEmptyTest)
	}

	pick := total
	if test.QuestionsPerAttempt != nil && *test.QuestionsPerAttempt > 0 {
		pick = *test.QuestionsPerAttempt
	}
	if pick < 1 {
		pick = 1
	}
	if pick > total {
		pick = total
	}

	perm := rand.Perm(total)
	selected := make([]uint, pick)
	for i := 0; i < pick; i++ {
		selected[i] = allIDs[perm[i]]
	}
	s.selections.Put(attemptID, selected)
	return selected, nil
}

func (s *attemptService) findTest(testID uint) (*model.Test, error) {
	test, err := s.testRepo.FindByID(testID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("test %d: %w", testID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading test %d: %w", testID, err)
	}
	return test, nil
}

// buildAttemptQuestions orders questions by the stored selection and shuffles
// each question's answers. The shuffle is per render on purpose: only the
// question order is part of the attempt's stable state.
func buildAttemptQuestions(selectedIDs []uint, questions []model.Question) []dto.AttemptQuestionDTO {
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	out := make([]dto.AttemptQuestionDTO, 0, len(selectedIDs))
	for _, qid := range selectedIDs {
		q, ok := byID[qid]
		if !ok {
			// Question was deleted mid-attempt; it simply is not rendered.
			log.Warn().Uint("questionID", qid).Msg("StartAttempt: selected question no longer exists")
			continue
		}
		answers := make([]dto.AttemptAnswerDTO, len(q.Answers))
		for i, a := range q.Answers {
			answers[i] = dto.AttemptAnswerDTO{ID: a.ID, Text: a.Text}
		}
		rand.Shuffle(len(answers), func(i, j int) {
			answers[i], answers[j] = answers[j], answers[i]
		})
		out = append(out, dto.AttemptQuestionDTO{ID: q.ID, Text: q.Text, Answers: answers})
	}
	return out
}

func timeLimitSeconds(test *model.Test) *int {
	if test.TimeLimit == nil {
		return nil
	}
	sec := *test.TimeLimit * 60
	return &sec
}

// remainingSeconds is the authoritative countdown, recomputed from the
// attempt's start timestamp on every render so a client clock cannot stretch
// the limit.
func remainingSeconds(test *model.Test, res *model.TestResult) *int {
	if test.TimeLimit == nil {
		return nil
	}
	limit := *test.TimeLimit * 60
	elapsed := int(time.Now().UTC().Sub(res.StartedAt).Seconds())
	remaining := limit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
