package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pathwise",
	Short: "Adaptive AI tutor",
	Long: "Pathwise plans a learning roadmap for any subject, teaches it one subtopic at a time " +
		"and adapts lessons and quizzes to how the learner is doing.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./pathwise.yaml or $XDG_CONFIG_HOME/pathwise/pathwise.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file (overrides PATHWISE_DATABASE_DSN and PATHWISE_DB)")
	addLearnFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(learnerCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
