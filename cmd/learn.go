package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/apiclient"
	"github.com/abhisek/pathwise/internal/app"
	"github.com/abhisek/pathwise/internal/capability"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/ui/layout"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start a learning session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func addLearnFlags(c *cobra.Command) {
	c.Flags().StringP("topic", "t", "", "Subject to learn (asked for when empty)")
	c.Flags().StringP("learner", "l", "", "Learner id to continue as (a new learner is created when empty)")
	c.Flags().String("name", "", "Name for a new learner (default: $USER)")
	c.Flags().String("server", "", "Base URL of a pathwise server; generation runs there instead of in-process")
}

func init() {
	addLearnFlags(learnCmd)
}

// learnerSource is what runLearn needs from either backend.
type learnerSource interface {
	create(ctx context.Context, in capability.NewLearner) (capability.Profile, error)
	get(ctx context.Context, id string) (capability.Profile, error)
	backend(id string) session.Backend
}

// runLearn resolves the learner and launches the TUI.
func runLearn(cmd *cobra.Command) error {
	ctx := cmd.Context()
	topic, _ := cmd.Flags().GetString("topic")
	learnerID, _ := cmd.Flags().GetString("learner")
	serverURL, _ := cmd.Flags().GetString("server")

	var src learnerSource
	if serverURL != "" {
		client, err := apiclient.New(serverURL, nil)
		if err != nil {
			return err
		}
		src = remoteSource{client}
	} else {
		e, err := openEnv(cmd, withoutConsoleLog)
		if err != nil {
			return err
		}
		defer e.Close()

		t, err := e.tutor(ctx)
		if err != nil {
			return err
		}
		src = localSource{t}
	}

	var (
		profile capability.Profile
		err     error
	)
	if learnerID != "" {
		profile, err = src.get(ctx, learnerID)
	} else {
		profile, err = src.create(ctx, capability.NewLearner{Name: learnerName(cmd)})
		if err == nil {
			defer fmt.Fprintf(os.Stderr, "Continue next time with: pathwise learn --learner %s\n", profile.LearnerID)
		}
	}
	if err != nil {
		return fmt.Errorf("resolve learner: %w", err)
	}

	return app.Run(ctx, app.Options{
		Backend: src.backend(profile.LearnerID),
		Topic:   topic,
		Status:  layout.Status{Learner: profile.Name, Quizzes: profile.TotalQuizzesPlayed},
	})
}

func learnerName(cmd *cobra.Command) string {
	if n, _ := cmd.Flags().GetString("name"); n != "" {
		return n
	}
	if n := os.Getenv("USER"); n != "" {
		return n
	}
	return "learner"
}
