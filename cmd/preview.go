package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/mathmood/internal/difficulty"
	"github.com/abhisek/mathmood/internal/llm"
	"github.com/abhisek/mathmood/internal/logger"
	"github.com/abhisek/mathmood/internal/problemgen"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions for a topic (no database)",
	Long: `Generate and answer questions for one topic, grade and difficulty level.

This is a stateless developer tool: nothing is stored and the level never
changes. Useful for checking question quality across providers.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("topic", "", "Addition, Subtraction, Multiplication or Division (required)")
	previewCmd.Flags().Int("grade", 3, "Grade 1-5")
	previewCmd.Flags().Int("level", int(difficulty.MinLevel), "Difficulty level 1-10")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	_ = previewCmd.MarkFlagRequired("topic")
}

func runPreview(cmd *cobra.Command, args []string) error {
	topicVal, _ := cmd.Flags().GetString("topic")
	grade, _ := cmd.Flags().GetInt("grade")
	level, _ := cmd.Flags().GetInt("level")
	count, _ := cmd.Flags().GetInt("count")

	topic, err := problemgen.ParseTopic(topicVal)
	if err != nil {
		return err
	}
	if grade < problemgen.MinGrade || grade > problemgen.MaxGrade {
		return fmt.Errorf("grade must be between %d and %d", problemgen.MinGrade, problemgen.MaxGrade)
	}
	level = int(difficulty.Level(level).Clamp())

	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	// No event recorder: preview leaves the database untouched.
	ctx := cmd.Context()
	var gen problemgen.Generator = problemgen.NewLocalGenerator(uint64(time.Now().UnixNano()))
	if cfg.LLM.Provider != llm.ProviderMock {
		provider, err := llm.NewProvider(ctx, cfg.LLM, nil, logger.Nop())
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		gen = problemgen.New(provider, problemgen.DefaultConfig())
	}

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Topic: %s (grade %d, level %d)\n", topic, grade, level)
	fmt.Printf("Generating %d questions...\n\n", count)

	var correct int
	var prior []string

	for i := 1; i <= count; i++ {
		input := problemgen.GenerateInput{
			Grade:          grade,
			Topic:          topic,
			Level:          level,
			PriorQuestions: prior,
		}

		q, err := problemgen.GenerateUnique(ctx, gen, input, problemgen.DefaultUniqueAttempts)
		if err != nil {
			fmt.Printf("Question %d: generation failed: %v\n\n", i, err)
			continue
		}
		prior = append(prior, q.Text)

		fmt.Printf("── Question %d/%d ──\n", i, count)
		fmt.Println(q.Text)

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		if problemgen.CheckAnswer(answer, q) {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Not quite.\033[0m Answer: %s\n", q.Answer)
		}

		if q.Explanation != "" {
			fmt.Printf("Explanation: %s\n", q.Explanation)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, count)
	return nil
}
