package domain

import (
	"errors"
	"testing"
)

func TestValidateQuiz(t *testing.T) {
	valid := Quiz{
		ID:    "quiz-1",
		Title: "Maths",
		Questions: []Question{
			{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectIndex: 1},
		},
	}
	if err := ValidateQuiz(valid); err != nil {
		t.Fatalf("expected valid quiz, got %v", err)
	}

	cases := map[string]func(q *Quiz){
		"three options":  func(q *Quiz) { q.Questions[0].Options = []string{"a", "b", "c"} },
		"index too big":  func(q *Quiz) { q.Questions[0].CorrectIndex = 4 },
		"negative index": func(q *Quiz) { q.Questions[0].CorrectIndex = -1 },
		"missing text":   func(q *Quiz) { q.Questions[0].Text = "" },
		"missing title":  func(q *Quiz) { q.Title = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			q := valid
			q.Questions = []Question{valid.Questions[0]}
			mutate(&q)
			if err := ValidateQuiz(q); !errors.Is(err, ErrInvalidQuiz) {
				t.Fatalf("expected ErrInvalidQuiz, got %v", err)
			}
		})
	}
}

func TestReason(t *testing.T) {
	if got := Reason(ErrSessionNotFound); got != ReasonInvalidPIN {
		t.Fatalf("expected %s, got %s", ReasonInvalidPIN, got)
	}
	if got := Reason(Unavailable(errors.New("dial tcp: refused"))); got != ReasonSourceUnavailable {
		t.Fatalf("expected %s, got %s", ReasonSourceUnavailable, got)
	}
	if got := Reason(Unavailable(ErrQuizNotFound)); got != ReasonQuizNotFound {
		t.Fatalf("expected %s, got %s", ReasonQuizNotFound, got)
	}
}
