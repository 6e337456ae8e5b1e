package cmd

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/abhisek/mathmood/internal/emotion"
	"github.com/abhisek/mathmood/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show a learner's recent answers and quiz scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("--name is required")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		user, err := s.FindUserByName(ctx, strings.TrimSpace(name))
		if errors.Is(err, store.ErrNotFound) {
			fmt.Printf("No learner named %q yet.\n", name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("find learner: %w", err)
		}

		sessions, err := s.RecentSessions(ctx, user.ID, limit)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		perf, err := s.RecentPerformance(ctx, user.ID, limit)
		if err != nil {
			return fmt.Errorf("query performance: %w", err)
		}

		fmt.Printf("%s (grade %d, %s)\n\n", user.Name, user.Grade, user.Topic)

		fmt.Println("Quizzes")
		fmt.Println(rule(56))
		if len(sessions) == 0 {
			fmt.Println("No finished quizzes yet.")
		}
		for _, r := range sessions {
			pct := new(big.Rat).Mul(r.Score, big.NewRat(100, 1))
			fmt.Printf("%-16s  %-14s  %4s%%  level %d\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Topic,
				pct.FloatString(0),
				r.Level,
			)
		}

		fmt.Println()
		fmt.Println("Answers")
		fmt.Println(rule(56))
		if len(perf) == 0 {
			fmt.Println("No answers yet.")
		}
		for _, r := range perf {
			fmt.Printf("%-16s  %-14s  %s  %s %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.Topic,
				checkMark(r.Correct),
				emotion.GlyphFor(r.Emotion),
				r.Emotion,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().String("name", "", "Learner name (required)")
	historyCmd.Flags().IntP("limit", "n", 10, "Number of rows to show")
}
