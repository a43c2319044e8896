package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/store"
)

var learnerCmd = &cobra.Command{
	Use:   "learner",
	Short: "Manage learner profiles",
}

var learnerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := capability.NewLearner{Name: learnerName(cmd)}
		in.Grade, _ = cmd.Flags().GetString("grade")
		in.PreferredLearningStyle, _ = cmd.Flags().GetString("style")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.learners().Create(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("create learner: %w", err)
		}
		fmt.Println(p.LearnerID)
		return nil
	},
}

var learnerShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a learner's capability profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.learners().Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get learner: %w", err)
		}

		fmt.Printf("ID:            %s\n", p.LearnerID)
		fmt.Printf("Name:          %s\n", p.Name)
		fmt.Printf("Grade:         %s\n", orDash(p.Grade))
		fmt.Printf("Style:         %s\n", orDash(p.PreferredLearningStyle))
		fmt.Printf("Quizzes:       %d\n", p.TotalQuizzesPlayed)
		fmt.Printf("Avg score:     %.2f / 10\n", p.AvgQuizScore)
		fmt.Printf("Avg time:      %.0f ms per question\n", p.AvgTimeSpent)
		fmt.Printf("Confidence:    %.2f%%\n", p.AvgConfidenceScore)
		fmt.Printf("Adaptability:  %.2f / 10\n", p.AdaptabilityScore)
		fmt.Printf("English:       %d / 10\n", p.EnglishProficiency)
		fmt.Printf("Weak topics:   %s\n", orDash(strings.Join(p.WeakTopics, ", ")))
		fmt.Printf("Strong topics: %s\n", orDash(strings.Join(p.StrongTopics, ", ")))
		return nil
	},
}

var learnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learners, most recently active first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		profiles, err := e.learners().List(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list learners: %w", err)
		}
		if len(profiles) == 0 {
			fmt.Println("No learners yet.")
			return nil
		}

		fmt.Printf("%-36s  %-20s  %7s  %9s\n", "ID", "Name", "Quizzes", "Avg score")
		fmt.Println(strings.Repeat("─", 78))
		for _, p := range profiles {
			fmt.Printf("%-36s  %-20s  %7d  %9.2f\n",
				p.LearnerID, truncate(p.Name, 20), p.TotalQuizzesPlayed, p.AvgQuizScore)
		}
		return nil
	},
}

var learnerHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "List a learner's scored quizzes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		return printQuizHistory(cmd.Context(), cmd.OutOrStdout(), e.store.EventRepo(), args[0], limit)
	},
}

func printQuizHistory(ctx context.Context, w io.Writer, repo store.EventRepo, learnerID string, limit int) error {
	events, err := repo.QueryQuizEvents(ctx, learnerID, store.QueryOpts{Limit: limit})
	if err != nil {
		return fmt.Errorf("query quizzes: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No quizzes recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-24s  %-24s  %5s  %10s\n", "Timestamp", "Topic", "Subtopic", "Score", "Confidence")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, e := range events {
		fmt.Fprintf(w, "%-19s  %-24s  %-24s  %2d/%-2d  %9.0f%%\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Topic, 24),
			truncate(e.Subtopic, 24),
			e.TotalScore, e.QuestionCount,
			e.ConfidencePct)
	}
	return nil
}

func orDash(s string) string {
	return orValue(s, "-")
}

func init() {
	learnerCreateCmd.Flags().String("name", "", "Learner name (default: $USER)")
	learnerCreateCmd.Flags().String("grade", "", "Grade or level, e.g. \"8\" or \"undergraduate\"")
	learnerCreateCmd.Flags().String("style", "", "Preferred learning style, e.g. visual")
	learnerListCmd.Flags().IntP("limit", "n", 20, "Number of learners to show")
	learnerHistoryCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")

	learnerCmd.AddCommand(learnerCreateCmd)
	learnerCmd.AddCommand(learnerShowCmd)
	learnerCmd.AddCommand(learnerListCmd)
	learnerCmd.AddCommand(learnerHistoryCmd)
}
