package problemgen

import (
	"fmt"
	"strings"
)

// Question represents a generated math question ready for display.
type Question struct {
	// Text is the question prompt displayed to the learner, e.g.
	// "Mia has 12 stickers and gets 7 more. How many does she have now?"
	Text string

	// Answer is the canonical correct answer: a single number such as
	// "19", "0.75" or "3/4".
	Answer string

	// AnswerType describes the numeric type of the answer for validation.
	AnswerType AnswerType

	// Explanation is a brief worked solution shown after the learner answers.
	Explanation string

	Topic Topic
	Grade int
	Level int
}

// AnswerType describes the numeric representation of the correct answer.
type AnswerType string

const (
	AnswerTypeInteger  AnswerType = "integer"  // e.g. "623", "-15"
	AnswerTypeDecimal  AnswerType = "decimal"  // e.g. "3.75", "0.5"
	AnswerTypeFraction AnswerType = "fraction" // e.g. "3/4", "7/2"
)

// Topic is one of the arithmetic topics a learner can pick.
type Topic string

const (
	TopicAddition       Topic = "Addition"
	TopicSubtraction    Topic = "Subtraction"
	TopicMultiplication Topic = "Multiplication"
	TopicDivision       Topic = "Division"
)

// Topics lists the selectable topics in display order.
var Topics = []Topic{TopicAddition, TopicSubtraction, TopicMultiplication, TopicDivision}

// ParseTopic matches s case-insensitively against Topics.
func ParseTopic(s string) (Topic, error) {
	s = strings.TrimSpace(s)
	for _, t := range Topics {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", s)
}

// Grade bounds for learners.
const (
	MinGrade = 1
	MaxGrade = 5
)

// GenerateInput holds all context needed to generate a question.
type GenerateInput struct {
	Grade int
	Topic Topic

	// Name is the learner's name, used to personalize word problems.
	Name string

	// Level is the difficulty level from 1 (easiest) to 10.
	Level int

	// PriorQuestions contains the Text of questions already asked in this
	// session. Used for deduplication in the prompt and by GenerateUnique.
	PriorQuestions []string
}
