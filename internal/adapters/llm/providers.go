package llm

import (
	"encoding/json"
	"strings"
)

// Supported providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// provider describes how to talk to one chat API.
type provider struct {
	name         string
	baseURL      string
	path         string
	model        string
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string

	buildBody     func(model, prompt string) map[string]any
	parseResponse func(body []byte) (string, error)
}

func lookupProvider(name string) (provider, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderAnthropic:
		return provider{
			name:       ProviderAnthropic,
			baseURL:    "https://api.anthropic.com",
			path:       "/v1/messages",
			model:      "claude-sonnet-4-20250514",
			authHeader: "x-api-key",
			extraHeaders: map[string]string{
				"anthropic-version": "2023-06-01",
			},
			buildBody:     buildAnthropicBody,
			parseResponse: parseAnthropicResponse,
		}, true
	case ProviderOpenAI:
		return provider{
			name:          ProviderOpenAI,
			baseURL:       "https://api.openai.com",
			path:          "/v1/chat/completions",
			model:         "gpt-4o-mini",
			authHeader:    "Authorization",
			authPrefix:    "Bearer ",
			buildBody:     buildOpenAIBody,
			parseResponse: parseOpenAIResponse,
		}, true
	default:
		return provider{}, false
	}
}

const (
	maxTokens   = 500
	temperature = 0.3
)

func buildAnthropicBody(model, prompt string) map[string]any {
	return map[string]any{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
	}
}

func buildOpenAIBody(model, prompt string) map[string]any {
	return map[string]any{
		"model":       model,
		"max_tokens":  maxTokens,
		"temperature": temperature,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
	}
}

func parseAnthropicResponse(body []byte) (string, error) {
	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	var texts []string
	for _, c := range resp.Content {
		if c.Type == "text" && c.Text != "" {
			texts = append(texts, c.Text)
		}
	}
	return strings.Join(texts, "\n"), nil
}

func parseOpenAIResponse(body []byte) (string, error) {
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
