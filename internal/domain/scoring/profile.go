package scoring

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Tier is a weighted keyword list. The first MaxMatches hits earn Points each;
// MaxMatches <= 0 means every hit counts.
type Tier struct {
	Keywords   []string `yaml:"keywords"`
	Points     int      `yaml:"points"`
	MaxMatches int      `yaml:"max_matches"`
}

// PatternBonus awards Points once when Pattern matches the combined text.
type PatternBonus struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Points  int    `yaml:"points"`

	re *regexp.Regexp
}

// CategoryRule maps a category id to the substrings that reveal it.
type CategoryRule struct {
	ID       CategoryID `yaml:"id"`
	Keywords []string   `yaml:"keywords"`
}

// Profile is the complete tuning of the heuristic scorer. Tables are plain
// data so alternative tunings can be swapped in without code changes.
type Profile struct {
	Name string `yaml:"name"`

	High   Tier `yaml:"high"`
	Medium Tier `yaml:"medium"`
	Low    Tier `yaml:"low"`

	// MarqueeTriggers are high-tier keywords also reported as emotional triggers.
	MarqueeTriggers []string `yaml:"marquee_triggers"`

	BoringPhrases      []string `yaml:"boring_phrases"`
	BoringPenalty      int      `yaml:"boring_penalty"`
	QuestionPrefixes   []string `yaml:"question_prefixes"`
	QuestionPenalty    int      `yaml:"question_penalty"`
	FirstPersonMarkers []string `yaml:"first_person_markers"`
	FirstPersonPenalty int      `yaml:"first_person_penalty"`

	PatternBonuses   []PatternBonus `yaml:"pattern_bonuses"`
	ShoutBonus       int            `yaml:"shout_bonus"`
	ExclamationBonus int            `yaml:"exclamation_bonus"`

	Categories     []CategoryRule `yaml:"categories"`
	HighEngagement []CategoryID   `yaml:"high_engagement"`
	CategoryBonus  int            `yaml:"category_bonus"`

	GenericThreshold int `yaml:"generic_threshold"`

	marquee    map[string]struct{}
	engagement map[CategoryID]struct{}
	compiled   bool
}

// Validate checks the profile and prepares its lookup tables. It must be
// called before the profile is used for scoring; NewHeuristic does this.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: profile name is empty", ErrInvalidProfile)
	}
	for _, t := range []struct {
		name string
		tier Tier
	}{{"high", p.High}, {"medium", p.Medium}, {"low", p.Low}} {
		if t.tier.Points < 0 {
			return fmt.Errorf("%w: %s tier points must not be negative", ErrInvalidProfile, t.name)
		}
	}
	if p.BoringPenalty < 0 || p.QuestionPenalty < 0 || p.FirstPersonPenalty < 0 {
		return fmt.Errorf("%w: penalties are magnitudes and must not be negative", ErrInvalidProfile)
	}

	seen := make(map[CategoryID]struct{}, len(p.Categories))
	for _, c := range p.Categories {
		if c.ID == "" {
			return fmt.Errorf("%w: category with empty id", ErrInvalidProfile)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidProfile, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	p.engagement = make(map[CategoryID]struct{}, len(p.HighEngagement))
	for _, id := range p.HighEngagement {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("%w: high-engagement category %q is not defined", ErrInvalidProfile, id)
		}
		p.engagement[id] = struct{}{}
	}

	for i := range p.PatternBonuses {
		re, err := regexp.Compile(p.PatternBonuses[i].Pattern)
		if err != nil {
			return fmt.Errorf("%w: pattern %q: %v", ErrInvalidProfile, p.PatternBonuses[i].Name, err)
		}
		p.PatternBonuses[i].re = re
	}

	p.marquee = make(map[string]struct{}, len(p.MarqueeTriggers))
	for _, m := range p.MarqueeTriggers {
		p.marquee[strings.ToLower(m)] = struct{}{}
	}

	lowerAll(p.High.Keywords)
	lowerAll(p.Medium.Keywords)
	lowerAll(p.Low.Keywords)
	lowerAll(p.BoringPhrases)
	lowerAll(p.QuestionPrefixes)
	lowerAll(p.FirstPersonMarkers)
	for i := range p.Categories {
		lowerAll(p.Categories[i].Keywords)
	}

	p.compiled = true
	return nil
}

// CategoryIDs returns the profile's categories in table order.
func (p *Profile) CategoryIDs() []CategoryID {
	ids := make([]CategoryID, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Clone returns a deep copy that can be modified without touching p.
func (p *Profile) Clone() *Profile {
	c := *p
	c.High.Keywords = slices.Clone(p.High.Keywords)
	c.Medium.Keywords = slices.Clone(p.Medium.Keywords)
	c.Low.Keywords = slices.Clone(p.Low.Keywords)
	c.MarqueeTriggers = slices.Clone(p.MarqueeTriggers)
	c.BoringPhrases = slices.Clone(p.BoringPhrases)
	c.QuestionPrefixes = slices.Clone(p.QuestionPrefixes)
	c.FirstPersonMarkers = slices.Clone(p.FirstPersonMarkers)
	c.PatternBonuses = append([]PatternBonus(nil), p.PatternBonuses...)
	c.Categories = make([]CategoryRule, len(p.Categories))
	for i, r := range p.Categories {
		c.Categories[i] = CategoryRule{ID: r.ID, Keywords: slices.Clone(r.Keywords)}
	}
	c.HighEngagement = append([]CategoryID(nil), p.HighEngagement...)
	c.marquee, c.engagement, c.compiled = nil, nil, false
	return &c
}

func (p *Profile) isMarquee(keyword string) bool {
	_, ok := p.marquee[keyword]
	return ok
}

func (p *Profile) isHighEngagement(id CategoryID) bool {
	_, ok := p.engagement[id]
	return ok
}

func lowerAll(ss []string) {
	for i, s := range ss {
		ss[i] = strings.ToLower(s)
	}
}
