package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "subtran <input>",
		Short:        "Convert PGS subtitles to SRT via OCR and translate them",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("config", "", "Path to subtran.toml (default: ./subtran.toml if present)")
	root.Flags().String("lang", "", "Target translation language tag (overrides config)")
	root.Flags().Bool("no-translate", false, "Skip the translation step")
	root.Flags().Bool("keep-sup", false, "Keep the extracted .sup file")

	// Hidden tuning flag (internal)
	root.Flags().String("cache", "", "Cache directory for transient artifacts")
	_ = root.Flags().MarkHidden("cache")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
