package googleai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

const requestTimeout = 3 * time.Minute

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}
}

// TranslateSRT sends the whole SubRip document in one prompt and expects a
// structure-preserving translation back.
func (a *Adapter) TranslateSRT(ctx context.Context, srtText, language string) (string, error) {
	if strings.TrimSpace(srtText) == "" {
		return "", errors.New("googleai: empty subtitle document")
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"role":  "user",
				"parts": []map[string]any{{"text": buildPrompt(srtText, language)}},
			},
		},
		// Subtitle dialogue routinely trips conservative safety filters;
		// the original client disabled them for translation.
		"safetySettings": safetySettings(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := a.baseURL + "/v1beta/models/" + a.model + ":generateContent"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("googleai timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("googleai status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("googleai status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw.Candidates) == 0 {
		return "", errors.New("googleai: response has no candidates")
	}

	var b strings.Builder
	for _, p := range raw.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	out := extractSRTBody(b.String())
	if strings.TrimSpace(out) == "" {
		return "", errors.New("googleai: empty translation")
	}
	return out, nil
}

func buildPrompt(srtText, language string) string {
	return "Please translate the entirety of the following SRT subtitles to " + language + ". " +
		"Preserve the same time stamps, line numbering, and overall SRT structure. " +
		"Output only the translated SRT file contents, no additional text. " +
		"Here is the SRT:\n\n" + srtText
}

func safetySettings() []map[string]string {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	out := make([]map[string]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, map[string]string{"category": c, "threshold": "BLOCK_NONE"})
	}
	return out
}

// extractSRTBody strips markdown code fences some models wrap around the
// translated document.
func extractSRTBody(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:]
	}
	if j := strings.LastIndex(t, "```"); j >= 0 {
		t = t[:j]
	}
	return strings.TrimSpace(t)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	googHeaderRE  = regexp.MustCompile(`(?i)(x-goog-api-key\s*[:=]\s*)([^\n\r,;]+)`)
	keyParamRE    = regexp.MustCompile(`(?i)([?&]key=)[A-Za-z0-9._-]+`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = googHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = keyParamRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
