package domain

import "time"

// OptionCount is the fixed number of options every question carries.
const OptionCount = 4

// Question models an MCQ question with exactly one correct option.
type Question struct {
	Text         string   `json:"text" validate:"required"`
	Options      []string `json:"options" validate:"len=4"`
	CorrectIndex int      `json:"correctAnswerIndex" validate:"min=0,max=3"`
}

// Quiz is an immutable, ordered collection of questions.
type Quiz struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions" validate:"dive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// QuizSummary is the listing view of a quiz.
type QuizSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary returns the listing view of q.
func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		Title:         q.Title,
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
	}
}

// Player is a participant of a live session, keyed by connection.
type Player struct {
	ConnID string
	Name   string
	Score  int
	// Answer is the option submitted for the current question, nil until answered.
	Answer *int
}

// Standing is one row of a roster or ranking.
type Standing struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// QuestionPayload is what players see of a question; the correct index is withheld.
type QuestionPayload struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// AnswerResult is the personal outcome of a scored submission.
type AnswerResult struct {
	Correct      bool `json:"correct"`
	PointsGained int  `json:"pointsGained"`
	CorrectIndex int  `json:"correctIndex"`
	NewScore     int  `json:"newScore"`
}

// SessionCreated is sent to the admin that created a session.
type SessionCreated struct {
	PIN string `json:"pin"`
}

// Failure carries a machine-readable rejection reason.
type Failure struct {
	Reason string `json:"reason"`
}
