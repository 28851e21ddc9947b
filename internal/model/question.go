package model

import "strings"

// QuestionType defines the kind of trivia question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
)

// Answer is a player's submitted answer. Exactly one field is set.
type Answer struct {
	Bool *bool  `json:"bool,omitempty" bson:"bool,omitempty"`
	Text string `json:"text,omitempty" bson:"text,omitempty"`
}

// Empty reports whether no answer was given (timeout non-answer).
func (a Answer) Empty() bool {
	return a.Bool == nil && strings.TrimSpace(a.Text) == ""
}

// Question is a single trivia question. CorrectBool applies to true/false
// questions; CorrectText to single-answer questions; Accepted lists
// alternative valid answers when more than one counts.
type Question struct {
	Type        QuestionType `json:"type" bson:"type"`
	Prompt      string       `json:"question" bson:"question"`
	Options     []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectBool *bool        `json:"correctBool,omitempty" bson:"correctBool,omitempty"`
	CorrectText string       `json:"correctText,omitempty" bson:"correctText,omitempty"`
	Accepted    []string     `json:"accepted,omitempty" bson:"accepted,omitempty"`
	Explanation string       `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Check scores a submitted answer against the stored correct answer.
// Booleans match exactly, strings ignore case and surrounding whitespace,
// and Accepted is a set-membership check.
func (q *Question) Check(a Answer) bool {
	if a.Empty() {
		return false
	}

	if q.CorrectBool != nil {
		return a.Bool != nil && *a.Bool == *q.CorrectBool
	}

	text := normalizeAnswer(a.Text)
	if len(q.Accepted) > 0 {
		for _, accepted := range q.Accepted {
			if text == normalizeAnswer(accepted) {
				return true
			}
		}
		return false
	}

	return q.CorrectText != "" && text == normalizeAnswer(q.CorrectText)
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
