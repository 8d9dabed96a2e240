// Package config loads the optional subtran.toml configuration file and
// applies defaults and validation. Environment variables and CLI flags are
// layered on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// GoogleAI holds the Generative Language API connection settings.
type GoogleAI struct {
	APIKey       string   `toml:"api_key"`
	Model        string   `toml:"model"`
	BaseURL      string   `toml:"base_url"`
	AllowedHosts []string `toml:"allowed_hosts"`
}

// Translation selects whether and into which language the recognized SRT is
// translated.
type Translation struct {
	Enabled  bool   `toml:"enabled"`
	Language string `toml:"language"` // BCP 47 tag, e.g. "ja", "pt-BR"
}

// OCR holds the tesseract invocation settings.
type OCR struct {
	TesseractPath string `toml:"tesseract_path"`
	Language      string `toml:"language"`
}

// Tools holds the paths of the external media binaries.
type Tools struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

// Files controls artifact retention.
type Files struct {
	// KeepExtracted leaves the intermediate .sup next to the output instead
	// of deleting it after a successful run.
	KeepExtracted bool `toml:"keep_extracted"`
}

type Config struct {
	GoogleAI    GoogleAI    `toml:"google_ai"`
	Translation Translation `toml:"translation"`
	OCR         OCR         `toml:"ocr"`
	Tools       Tools       `toml:"tools"`
	Files       Files       `toml:"files"`
}

// DefaultPath is probed when no --config flag is given.
const DefaultPath = "subtran.toml"

func Default() Config {
	return Config{
		GoogleAI: GoogleAI{
			Model:   "gemini-2.0-flash",
			BaseURL: "https://generativelanguage.googleapis.com",
		},
		Translation: Translation{
			Enabled:  true,
			Language: "ja",
		},
		OCR: OCR{
			TesseractPath: "tesseract",
			Language:      "eng",
		},
		Tools: Tools{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
	}
}

// Load reads a TOML config file over the defaults. A missing file at the
// default path is not an error; a missing file named explicitly is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Translation.Enabled {
		if _, err := language.Parse(c.Translation.Language); err != nil {
			return fmt.Errorf("translation language %q: %w", c.Translation.Language, err)
		}
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		return errors.New("ocr language is empty")
	}
	if strings.TrimSpace(c.GoogleAI.Model) == "" {
		return errors.New("google_ai model is empty")
	}
	return nil
}

// LanguageName renders a BCP 47 tag as an English language name for use in
// the translation prompt ("ja" -> "Japanese"). Unparseable tags fall back to
// the raw string so the prompt stays usable.
func LanguageName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	if name := display.English.Languages().Name(t); name != "" {
		return name
	}
	return tag
}
