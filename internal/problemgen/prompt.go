package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a friendly math tutor creating practice problems for children in grades 1-5.

Rules:
- Generate a single short word problem for the given topic, grade and difficulty level. Do not reveal the answer in the question.
- Use the student's name in the story when one is given.
- Difficulty 1 is the easiest problem a child in that grade would see; 10 is the hardest. Scale the size of the numbers and the number of steps with the level.
- Use plain text for all math. No LaTeX. Use / for fractions.
- The answer must be a single number: an integer, a decimal or a fraction. No units or words.
- The answer must be correct and in the simplest form (reduce fractions, no trailing zeros on decimals).
- The explanation should show the solution step by step, suitable for a child.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message from GenerateInput and Config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade: %d\n", input.Grade)
	fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	fmt.Fprintf(&b, "Difficulty level: %d of 10\n", input.Level)
	if input.Name != "" {
		fmt.Fprintf(&b, "Student name: %s\n", input.Name)
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))

	return b.String()
}

// buildDedup lists the most recent max prior questions, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	lines := make([]string, len(prior))
	for i, q := range prior {
		lines[i] = fmt.Sprintf("%d. %s", i+1, q)
	}
	return strings.Join(lines, "\n")
}
