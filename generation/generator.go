// Package generation produces report content from a topic via the OpenAI
// chat-completions API and owns the report's terminal generation statuses.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/printhub/reporthub/models"
)

const (
	chatCompletionsEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel            = "gpt-4o"
	requestTimeout          = 5 * time.Minute
	maxTokens               = 4000
	temperature             = 0.7
)

const systemPrompt = "You are a professional report writer. Generate well-structured, informative content with proper formatting."

// Generator calls the OpenAI chat-completions API to write report content.
type Generator struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

func NewGenerator(apiKey, model string) *Generator {
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		apiKey:   apiKey,
		model:    model,
		endpoint: chatCompletionsEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Generate produces the full document text for the report.
func (g *Generator) Generate(ctx context.Context, report *models.Report) (string, error) {
	if err := g.ensureAPIKey(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildPrompt(report)},
		},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode generation payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, buf)
	if err != nil {
		return "", fmt.Errorf("create generation request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", decodeAPIError(resp)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode generation response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no content returned")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty content returned")
	}
	return content, nil
}

// buildPrompt mirrors the generation request the report hub has always sent:
// page-count-targeted, professionally formatted content built from the
// report's immutable fields.
func buildPrompt(r *models.Report) string {
	instructions := r.AdditionalInstructions
	if strings.TrimSpace(instructions) == "" {
		instructions = "None"
	}

	return fmt.Sprintf(`Generate a comprehensive %d-page report on %q with the title %q.

Format requirements:
- Professional academic/business format
- Proper spacing and paragraph structure
- Include introduction, main sections, and conclusion
- Target exactly %d pages when printed
- Each page should contain approximately 250-300 words
- Use clear headings and subheadings
- Include relevant examples and explanations

Additional instructions: %s

Please structure the content with proper HTML formatting for PDF generation.`,
		r.Pages, r.Topic, r.Title, r.Pages, instructions)
}

func decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("openai api error: status %d type %s message %s",
			resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("openai api error: status %d body %s", resp.StatusCode, string(body))
}

func (g *Generator) ensureAPIKey() error {
	if strings.TrimSpace(g.apiKey) == "" {
		return errors.New("openai api key is not configured")
	}
	return nil
}
