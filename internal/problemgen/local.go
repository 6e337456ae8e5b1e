package problemgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// LocalGenerator builds bare arithmetic questions without a language model.
// It backs the mock provider so the quiz runs offline.
type LocalGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocalGenerator creates a LocalGenerator. Equal seeds give equal
// question sequences.
func NewLocalGenerator(seed uint64) *LocalGenerator {
	return &LocalGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// operandMax grows with grade and level: grade 1 level 1 stays within 5,
// grade 5 level 10 reaches 1000.
func operandMax(grade, level int) int {
	grade = min(max(grade, MinGrade), MaxGrade)
	level = min(max(level, 1), 10)
	base := []int{5, 10, 20, 50, 100}[grade-1]
	return base * (1 + (level-1)*(level-1)/9)
}

func (g *LocalGenerator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}

func (g *LocalGenerator) Generate(ctx context.Context, input GenerateInput) (*Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hi := operandMax(input.Grade, input.Level)
	a := 1 + g.intn(hi)
	b := 1 + g.intn(hi)

	var text, explanation string
	var answer int
	switch input.Topic {
	case TopicSubtraction:
		if b > a {
			a, b = b, a
		}
		answer = a - b
		text = fmt.Sprintf("What is %d - %d?", a, b)
		explanation = fmt.Sprintf("Take %d away from %d to get %d.", b, a, answer)
	case TopicMultiplication:
		f := min(hi, 12)
		a, b = 1+g.intn(f), 1+g.intn(f)
		answer = a * b
		text = fmt.Sprintf("What is %d × %d?", a, b)
		explanation = fmt.Sprintf("%d groups of %d make %d.", a, b, answer)
	case TopicDivision:
		f := min(hi, 12)
		b, answer = 1+g.intn(f), 1+g.intn(f)
		a = b * answer
		text = fmt.Sprintf("What is %d ÷ %d?", a, b)
		explanation = fmt.Sprintf("%d × %d = %d, so %d ÷ %d = %d.", b, answer, a, a, b, answer)
	default:
		answer = a + b
		text = fmt.Sprintf("What is %d + %d?", a, b)
		explanation = fmt.Sprintf("Put %d and %d together to get %d.", a, b, answer)
	}

	if input.Name != "" {
		text = input.Name + ", " + lowerFirst(text)
	}

	return &Question{
		Text:        text,
		Answer:      fmt.Sprint(answer),
		AnswerType:  AnswerTypeInteger,
		Explanation: explanation,
		Topic:       input.Topic,
		Grade:       input.Grade,
		Level:       input.Level,
	}, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}
