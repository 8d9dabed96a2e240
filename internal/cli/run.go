package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"subtran/internal/config"
	"subtran/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	cfgPath, _ := cmd.Flags().GetString("config")
	langFlag, _ := cmd.Flags().GetString("lang")
	noTranslate, _ := cmd.Flags().GetBool("no-translate")
	keepSup, _ := cmd.Flags().GetBool("keep-sup")
	cacheDir, _ := cmd.Flags().GetString("cache")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if langFlag != "" {
		cfg.Translation.Language = langFlag
	}
	if noTranslate {
		cfg.Translation.Enabled = false
	}
	if keepSup {
		cfg.Files.KeepExtracted = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	apiKey := os.Getenv("GOOGLE_AI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GoogleAI.APIKey
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	pcfg := pipeline.Config{
		InputPath: absIn,
		OutDir:    outDir,
		CacheDir:  cacheDir,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		},

		FFmpegPath:  cfg.Tools.FFmpegPath,
		FFprobePath: cfg.Tools.FFprobePath,

		TesseractPath: cfg.OCR.TesseractPath,
		OCRLanguage:   cfg.OCR.Language,

		Translate:            cfg.Translation.Enabled,
		TargetLanguage:       cfg.Translation.Language,
		GoogleAIAPIKey:       apiKey,
		GoogleAIModel:        getenvDefault("GOOGLE_AI_MODEL", cfg.GoogleAI.Model),
		GoogleAIBaseURL:      getenvDefault("GOOGLE_AI_BASE_URL", cfg.GoogleAI.BaseURL),
		GoogleAIAllowedHosts: cfg.GoogleAI.AllowedHosts,

		KeepExtracted: cfg.Files.KeepExtracted,
		ShowProgress:  true,
	}

	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, pcfg)
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
