package dto

import "time"

// AttemptAnswerDTO is an answer option as shown to the test taker: no score,
// no correctness flag.
type AttemptAnswerDTO struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type AttemptQuestionDTO struct {
	ID      uint               `json:"id"`
	Text    string             `json:"text"`
	Answers []AttemptAnswerDTO `json:"answers"`
}

// AttemptViewDTO renders one in-progress attempt. Question identity and order
// are stable across renders; the answer order inside each question is
// reshuffled on every render. RemainingSeconds is nil for untimed tests and
// is the authoritative server-side countdown otherwise.
type AttemptViewDTO struct {
	AttemptID        uint                 `json:"attempt_id"`
	TestID           uint                 `json:"test_id"`
	TestTitle        string               `json:"test_title"`
	StartedAt        time.Time            `json:"started_at"`
	TimeLimitSeconds *int                 `json:"time_limit_seconds,omitempty"`
	RemainingSeconds *int                 `json:"remaining_seconds,omitempty"`
	Questions        []AttemptQuestionDTO `json:"questions"`
}

// SelectedAnswerDTO names the answer the user picked for one question.
type SelectedAnswerDTO struct {
	QuestionID uint `json:"question_id" binding:"required"`
	AnswerID   uint `json:"answer_id" binding:"required"`
}

// AttemptSubmitDTO carries the whole submission. An empty Answers list is
// legal: for an expired attempt it auto-completes with score zero.
type AttemptSubmitDTO struct {
	Answers []SelectedAnswerDTO `json:"answers" binding:"dive"`
}

type ResultSummaryDTO struct {
	ID        uint       `json:"id"`
	TestID    uint       `json:"test_id"`
	UserID    uint       `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	PassedAt  *time.Time `json:"passed_at,omitempty"`
	Score     float64    `json:"score"`
}

// ResultAnswerDTO is one submitted answer inside a result detail view.
type ResultAnswerDTO struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	AnswerID     uint    `json:"answer_id"`
	AnswerText   string  `json:"answer_text"`
	IsCorrect    bool    `json:"is_correct"`
	Score        float64 `json:"score"`
}

type ResultDetailDTO struct {
	ID           uint              `json:"id"`
	TestID       uint              `json:"test_id"`
	TestTitle    string            `json:"test_title"`
	UserID       uint              `json:"user_id"`
	UserFullName string            `json:"user_full_name"`
	StartedAt    time.Time         `json:"started_at"`
	PassedAt     *time.Time        `json:"passed_at,omitempty"`
	Score        float64           `json:"score"`
	Answers      []ResultAnswerDTO `json:"answers,omitempty"`
}

// TestResultsDTO is the admin per-test results page: every completed attempt
// ordered by score plus the aggregate stats recomputed on each view.
type TestResultsDTO struct {
	TestID    uint               `json:"test_id"`
	TestTitle string             `json:"test_title"`
	MaxScore  float64            `json:"max_score"`
	AvgScore  float64            `json:"avg_score"`
	MinScore  float64            `json:"min_score"`
	Results   []TestResultRowDTO `json:"results"`
}

// TestResultRowDTO is one row of the admin results table.
type TestResultRowDTO struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"user_id"`
	UserFullName string     `json:"user_full_name"`
	TabNumber    *string    `json:"tab_number,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	PassedAt     *time.Time `json:"passed_at,omitempty"`
	Score        float64    `json:"score"`
}

type ErrorResponse struct {
	Message  string   `json:"message"`
	Code     string   `json:"code,omitempty"`
	ResultID *uint    `json:"result_id,omitempty"`
	Details  []string `json:"details,omitempty"`
}
