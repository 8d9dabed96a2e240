package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingDefaultPathUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Translation.Language != "ja" || !cfg.Translation.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg.Translation)
	}
	if cfg.OCR.Language != "eng" || cfg.Tools.FFmpegPath != "ffmpeg" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("explicitly named missing config must fail")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtran.toml")
	doc := `
[google_ai]
model = "gemini-2.5-pro"

[translation]
enabled = true
language = "pt-BR"

[ocr]
language = "deu"

[files]
keep_extracted = true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GoogleAI.Model != "gemini-2.5-pro" {
		t.Fatalf("model = %q", cfg.GoogleAI.Model)
	}
	if cfg.Translation.Language != "pt-BR" {
		t.Fatalf("language = %q", cfg.Translation.Language)
	}
	if cfg.OCR.Language != "deu" {
		t.Fatalf("ocr language = %q", cfg.OCR.Language)
	}
	if !cfg.Files.KeepExtracted {
		t.Fatal("keep_extracted not applied")
	}
	// Untouched sections keep their defaults.
	if cfg.GoogleAI.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Fatalf("base url = %q", cfg.GoogleAI.BaseURL)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subtran.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	bad := Default()
	bad.Translation.Language = "not a tag"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for invalid language tag")
	}

	// Invalid tag is fine while translation is off.
	bad.Translation.Enabled = false
	if err := bad.Validate(); err != nil {
		t.Fatalf("language ignored when disabled: %v", err)
	}

	noOCR := Default()
	noOCR.OCR.Language = " "
	if err := noOCR.Validate(); err == nil {
		t.Fatal("expected error for empty OCR language")
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[string]string{
		"ja":    "Japanese",
		"pt-BR": "Brazilian Portuguese",
		"de":    "German",
	}
	for tag, want := range tests {
		if got := LanguageName(tag); got != want {
			t.Fatalf("LanguageName(%q) = %q, want %q", tag, got, want)
		}
	}
	// Unparseable tags fall through untouched.
	if got := LanguageName("???"); got != "???" {
		t.Fatalf("fallback = %q", got)
	}
}
