package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/interfaces/cli/admin"
	"github.com/studyforge/studyforge/internal/interfaces/cli/migrate"
	"github.com/studyforge/studyforge/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "studyforge",
		Short:        "StudyForge - metered study-content generation service",
		Long:         `StudyForge generates chat answers, quizzes, answer evaluations and mind maps for students, metering free accounts against their plan.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		admin.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
