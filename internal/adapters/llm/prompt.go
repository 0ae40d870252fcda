package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/scoring"
)

const promptSummaryLimit = 500

const promptTemplate = `Analyze this news article for affiliate copywriting potential.

HEADLINE: %s
SUMMARY: %s

Score this article on a scale of 0-100 for copywriting potential, considering:
- Does it have an emotional hook?
- Is it about something people care about right now?
- Could it be used as a news angle for insurance/finance ads?
- Does it create curiosity, fear, or desire?

Return JSON only:
{
    "score": 0-100,
    "categories": ["list", "of", "relevant", "categories"],
    "emotional_triggers": ["list", "of", "emotions", "this", "evokes"],
    "hook_potential": "brief explanation of how this could be used for ad hooks",
    "copy_angle": "one sentence ad angle inspired by this"
}`

func buildPrompt(title, summary string) string {
	s := "N/A"
	if summary != "" {
		s = truncateRunes(summary, promptSummaryLimit)
	}
	return fmt.Sprintf(promptTemplate, title, s)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

type answer struct {
	Score             *float64 `json:"score"`
	Categories        []string `json:"categories"`
	EmotionalTriggers []string `json:"emotional_triggers"`
	HookPotential     string   `json:"hook_potential"`
	CopyAngle         string   `json:"copy_angle"`
}

// ParseResult decodes a model answer. Code fences and any text around the
// outermost JSON object are ignored. The score is rounded and clamped to
// [0, 100]; category names are lower-cased with spaces turned into
// underscores so they can match the known category ids.
func ParseResult(text string) (batch.ModelResult, error) {
	raw := extractJSON(text)
	if raw == "" {
		return batch.ModelResult{}, fmt.Errorf("%w: no JSON object", ErrModelResponse)
	}

	var a answer
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return batch.ModelResult{}, fmt.Errorf("%w: %w", ErrModelResponse, err)
	}
	if a.Score == nil || math.IsNaN(*a.Score) {
		return batch.ModelResult{}, fmt.Errorf("%w: missing score", ErrModelResponse)
	}

	cats := scoring.NewCategorySet()
	for _, c := range a.Categories {
		c = strings.Join(strings.Fields(strings.ToLower(c)), "_")
		if c != "" {
			cats.Add(scoring.CategoryID(c))
		}
	}

	triggers := make([]string, 0, len(a.EmotionalTriggers))
	for _, t := range a.EmotionalTriggers {
		if t = strings.TrimSpace(t); t != "" {
			triggers = append(triggers, t)
		}
	}

	return batch.ModelResult{
		Score:             scoring.Clamp(int(math.Round(math.Max(-1, math.Min(*a.Score, 101))))),
		Categories:        cats,
		EmotionalTriggers: triggers,
		HookPotential:     strings.TrimSpace(a.HookPotential),
		CopyAngle:         strings.TrimSpace(a.CopyAngle),
	}, nil
}

// extractJSON strips a ``` fence (with an optional json tag) and falls back
// to the outermost {...} span when the rest is not valid JSON.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		parts := strings.Split(s, "```")
		if len(parts) > 1 {
			s = strings.TrimSpace(parts[1])
			s = strings.TrimSpace(strings.TrimPrefix(s, "json"))
		}
	}
	if json.Valid([]byte(s)) {
		return s
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		// The fence may have hidden the object; try the full text once more.
		start = strings.Index(text, "{")
		end = strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return ""
		}
		return text[start : end+1]
	}
	return s[start : end+1]
}
