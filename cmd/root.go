package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/visiq/internal/quiz"
	"github.com/abhisek/visiq/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "visiq",
	Short: "Visual IQ quiz in the terminal",
	Long: `visiq generates a fresh set of visual IQ puzzles with a language model,
draws each puzzle's image with an image model and scores your answers.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite usage database (overrides VISIQ_DB env var)")
	pf.String("log-file", "", `Log file path, "-" for stderr (overrides VISIQ_LOG_FILE)`)
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides VISIQ_LOG_LEVEL)")
	pf.IntP("questions", "q", defaultQuestions(), "Questions per session (env VISIQ_QUESTIONS)")
	pf.String("provider", "", "Text provider: gemini, openai, anthropic, openrouter, mock")
	pf.String("image-provider", "", "Image provider: gemini, openai, mock")
	pf.Int("retries", 0, "Attempts per text request on transient errors (overrides VISIQ_LLM_RETRIES)")
	pf.Bool("offline", false, "Use built-in sample puzzles and generated patterns instead of remote models")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultQuestions() int {
	if v := os.Getenv("VISIQ_QUESTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return quiz.DefaultTotal
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then VISIQ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
