package categorize

import (
	"fmt"

	"github.com/okian/newsheat/internal/domain/scoring"
)

// Default bucket labels.
const (
	LabelHotTakes       = "🔥 Hot Takes"
	LabelPoliticalDrama = "🏛️ Political Drama"
	LabelMoneyFears     = "💸 Money Fears"
	LabelScamsWarnings  = "⚠️ Scams & Warnings"
	LabelOutrage        = "😡 Outrage"
	LabelCrimeSafety    = "🔪 Crime & Safety"
	LabelRatesEconomy   = "📈 Rates & Economy"
	LabelInsuranceNews  = "🛡️ Insurance News"
	LabelDisasters      = "⛈️ Disasters"
	LabelHealthScares   = "🏥 Health Scares"
	LabelOther          = "📰 Other"
)

// DefaultHotThreshold is the score at which an article is a hot take
// regardless of its categories.
const DefaultHotThreshold = 70

// Mapping sends articles carrying Category to the bucket Label.
type Mapping struct {
	Category scoring.CategoryID
	Label    string
}

// Layout describes how scored articles are bucketed.
type Layout struct {
	HotLabel     string
	HotThreshold int
	OtherLabel   string
	// Table is consulted in order; the first category an article carries wins.
	Table []Mapping
	// Priority is the output order of buckets. It must name every label.
	Priority []string
}

// DefaultLayout returns the standard emoji-labelled layout.
func DefaultLayout() Layout {
	return Layout{
		HotLabel:     LabelHotTakes,
		HotThreshold: DefaultHotThreshold,
		OtherLabel:   LabelOther,
		Table: []Mapping{
			{scoring.CategoryPoliticsDrama, LabelPoliticalDrama},
			{scoring.CategoryMoneyFears, LabelMoneyFears},
			{scoring.CategoryScamsWarnings, LabelScamsWarnings},
			{scoring.CategoryOutrage, LabelOutrage},
			{scoring.CategoryCrimeSafety, LabelCrimeSafety},
			{scoring.CategoryRatesEconomy, LabelRatesEconomy},
			{scoring.CategoryInsuranceNews, LabelInsuranceNews},
			{scoring.CategoryDisasters, LabelDisasters},
			{scoring.CategoryHealthScares, LabelHealthScares},
		},
		Priority: []string{
			LabelHotTakes, LabelPoliticalDrama, LabelMoneyFears,
			LabelScamsWarnings, LabelOutrage, LabelCrimeSafety,
			LabelRatesEconomy, LabelInsuranceNews, LabelDisasters,
			LabelHealthScares, LabelOther,
		},
	}
}

// Validate checks that every label an article can land in has a place in
// Priority and that Priority has no repeats.
func (l Layout) Validate() error {
	if l.HotLabel == "" || l.OtherLabel == "" {
		return fmt.Errorf("%w: hot and other labels are required", ErrInvalidLayout)
	}
	pos := make(map[string]struct{}, len(l.Priority))
	for _, label := range l.Priority {
		if _, dup := pos[label]; dup {
			return fmt.Errorf("%w: label %q listed twice", ErrInvalidLayout, label)
		}
		pos[label] = struct{}{}
	}
	need := []string{l.HotLabel, l.OtherLabel}
	for _, m := range l.Table {
		need = append(need, m.Label)
	}
	for _, label := range need {
		if _, ok := pos[label]; !ok {
			return fmt.Errorf("%w: label %q missing from priority", ErrInvalidLayout, label)
		}
	}
	return nil
}
