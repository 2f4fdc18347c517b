package dto

// TestSaveDTO is the admin payload for creating or editing a test. TimeLimit
// is minutes, 0/absent means unlimited; QuestionsPerAttempt absent means
// "show all questions".
type TestSaveDTO struct {
	Title               string   `json:"title" binding:"required,max=255"`
	Description         string   `json:"description,omitempty" binding:"max=1000"`
	TimeLimit           *int     `json:"time_limit"`
	QuestionsPerAttempt *int     `json:"questions_per_attempt"`
	MaxScore            *float64 `json:"max_score"`
}

// AnswerSaveDTO is one answer option inside a question payload.
type AnswerSaveDTO struct {
	Text  string  `json:"text" binding:"required,max=255"`
	Score float64 `json:"score"`
}

// QuestionSaveDTO creates or replaces a question. CorrectIndex is 1-based and
// selects which of Answers is the correct one.
type QuestionSaveDTO struct {
	Text         string          `json:"text" binding:"required,max=500"`
	Answers      []AnswerSaveDTO `json:"answers" binding:"required,min=2,dive"`
	CorrectIndex int             `json:"correct_index" binding:"required,min=1"`
}
