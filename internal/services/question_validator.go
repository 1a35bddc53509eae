package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

var (
	phonePattern  = regexp.MustCompile(`^\+?[0-9]{1,16}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// AnswerInput is one attendee-submitted answer.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Value      string    `json:"value"`
}

// ValidateAnswers checks answers against the event's questions and returns
// one message per violated rule, in question display order. An empty result
// means the answers are valid. Answers for unknown questions are ignored.
func ValidateAnswers(questions []models.Question, answers []AnswerInput) []string {
	byQuestion := make(map[uuid.UUID]string, len(answers))
	for _, answer := range answers {
		if _, ok := byQuestion[answer.QuestionID]; !ok {
			byQuestion[answer.QuestionID] = answer.Value
		}
	}

	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	var messages []string
	for i := range ordered {
		question := &ordered[i]
		value := byQuestion[question.ID]

		if strings.TrimSpace(value) == "" {
			if question.Required {
				messages = append(messages, fmt.Sprintf("%s is required", question.Text))
			}
			continue
		}

		if msg := validateValue(question, value); msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages
}

func validateValue(question *models.Question, value string) string {
	switch question.Type {
	case models.QuestionTypeEmail:
		if err := validate.Var(strings.TrimSpace(value), "email"); err != nil {
			return fmt.Sprintf("Invalid email format for: %s", question.Text)
		}
	case models.QuestionTypePhone:
		if !phonePattern.MatchString(phoneStripper.Replace(value)) {
			return fmt.Sprintf("Invalid phone number format for: %s", question.Text)
		}
	case models.QuestionTypeSelect, models.QuestionTypeRadio:
		if !question.HasOption(value) {
			return fmt.Sprintf("Invalid option selected for: %s", question.Text)
		}
	case models.QuestionTypeCheckbox:
		var selected []string
		if err := json.Unmarshal([]byte(value), &selected); err != nil {
			return fmt.Sprintf("Invalid answer format for: %s", question.Text)
		}
		if len(selected) == 0 && question.Required {
			return fmt.Sprintf("%s is required", question.Text)
		}
		for _, option := range selected {
			if !question.HasOption(option) {
				return fmt.Sprintf("Invalid option selected for: %s", question.Text)
			}
		}
	}
	return ""
}
