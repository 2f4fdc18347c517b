package dto

import "time"

// AnswerResponseDTO is the admin-facing answer view, including the score and
// correctness flag that are never shown to a test taker.
type AnswerResponseDTO struct {
	ID        uint    `json:"id"`
	Text      string  `json:"text"`
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
}

type QuestionResponseDTO struct {
	ID      uint                `json:"id"`
	TestID  uint                `json:"test_id"`
	Text    string              `json:"text"`
	Answers []AnswerResponseDTO `json:"answers,omitempty"`
}

// TestResponseDTO is the full admin view of a test.
type TestResponseDTO struct {
	ID                  uint                  `json:"id"`
	Title               string                `json:"title"`
	Description         string                `json:"description,omitempty"`
	TimeLimit           *int                  `json:"time_limit,omitempty"`
	QuestionsPerAttempt *int                  `json:"questions_per_attempt,omitempty"`
	MaxScore            *float64              `json:"max_score,omitempty"`
	Questions           []QuestionResponseDTO `json:"questions,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
}

// TestSummaryDTO is the list/ready view: metadata plus question count, no
// question bodies.
type TestSummaryDTO struct {
	ID                  uint      `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	TimeLimit           *int      `json:"time_limit,omitempty"`
	QuestionsPerAttempt *int      `json:"questions_per_attempt,omitempty"`
	QuestionCount       int       `json:"question_count"`
	CreatedAt           time.Time `json:"created_at"`
}

// DashboardTestDTO pairs a test with the maximum achievable score and the
// user's most recent attempt, if any.
type DashboardTestDTO struct {
	ID               uint              `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	MaxPossibleScore float64           `json:"max_possible_score"`
	LastResult       *ResultSummaryDTO `json:"last_result,omitempty"`
}

type DashboardDTO struct {
	FullName string             `json:"full_name"`
	Tests    []DashboardTestDTO `json:"tests"`
}
