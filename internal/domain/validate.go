package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateQuiz checks the document shape quiz sources promise: 4 options per
// question and a correct index within range.
func ValidateQuiz(quiz Quiz) error {
	if err := validate.Struct(quiz); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidQuiz, quiz.ID, err)
	}
	return nil
}
