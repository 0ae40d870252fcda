package scoring

import (
	"fmt"
	"sort"
)

// Names of the bundled profiles.
const (
	ProfileEmotional = "emotional"
	ProfileMild      = "mild"
)

// builtins maps a profile name to a constructor; each call yields a fresh copy.
var builtins = map[string]func() *Profile{ //nolint:gochecknoglobals // read-only registry of bundled profiles
	ProfileEmotional: EmotionalProfile,
	ProfileMild:      MildProfile,
}

// ProfileByName returns a fresh, validated copy of a bundled profile.
func ProfileByName(name string) (*Profile, error) {
	ctor, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	p := ctor()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileNames lists the bundled profile names in lexical order.
func ProfileNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EmotionalProfile is the canonical tuning: fear, anger, political and
// money-loss language dominates, forum-style posts are pushed down.
// The high tier deliberately keeps repeated entries ("crash", "collapse",
// "exposed", "leaked"); each list entry is checked on its own.
func EmotionalProfile() *Profile {
	return &Profile{
		Name: ProfileEmotional,
		High: Tier{
			Points:     20,
			MaxMatches: 3,
			Keywords: []string{
				// political drama
				"trump", "maga", "biden", "democrats destroy", "republicans destroy",
				"leftist", "right-wing", "woke", "anti-woke", "liberal tears",
				"conservative", "radical", "extremist", "socialist", "fascist",
				// government outrage
				"shutdown", "default", "debt ceiling", "government waste",
				"taxpayer money", "big government", "deep state", "corruption",
				"scandal", "cover-up", "exposed", "caught", "busted",
				"investigation", "indicted", "arrested", "charged", "guilty",
				// fear and danger
				"warning", "alert", "danger", "threat", "risk", "unsafe",
				"deadly", "killed", "dies", "death", "fatal", "victims",
				"crash", "collapse", "crisis", "emergency", "disaster",
				"scam", "fraud", "ripoff", "stealing", "theft", "hacked",
				// money fears
				"skyrocket", "surge", "spike", "soar", "explode", "double", "triple",
				"plunge", "crash", "tank", "collapse", "recession", "depression",
				"can't afford", "unaffordable", "priced out", "struggling",
				"layoffs", "fired", "unemployed", "job cuts", "hiring freeze",
				// outrage bait
				"outrage", "furious", "angry", "slammed", "blasted", "ripped",
				"destroyed", "obliterated", "humiliated", "embarrassed",
				"caught on camera", "leaked", "secretly", "hidden",
				"you won't believe", "exposed", "the truth about", "exposed",
				"lied", "lying", "lies", "deceived", "betrayed", "backstabbed",
				// breaking
				"breaking", "just in", "urgent", "developing", "happening now",
				"exclusive", "first look", "insider", "leaked",
			},
		},
		Medium: Tier{
			Points:     12,
			MaxMatches: 3,
			Keywords: []string{
				"rates rising", "premiums", "insurance cost", "coverage denied",
				"claim rejected", "rate hike", "price increase",
				"mortgage rates", "interest rates", "fed raises", "fed cuts",
				"inflation", "cost of living", "prices",
				"hidden fees", "fine print", "gotcha", "trap", "trick",
				"overcharged", "ripped off", "fighting back",
				"recall", "contaminated", "dangerous", "side effects",
				"cancer", "disease", "outbreak", "virus", "epidemic",
				"hurricane", "tornado", "flood", "wildfire", "earthquake",
				"storm", "devastation", "damage", "destroyed homes",
				"crime", "robbery", "assault", "shooting", "murder",
				"unsafe", "protect yourself", "home invasion",
			},
		},
		Low: Tier{
			Points: 3,
			Keywords: []string{
				"how to", "tips", "guide", "tutorial", "ways to",
				"best", "top", "review", "comparison",
			},
		},
		MarqueeTriggers: []string{"trump", "maga", "biden", "shutdown", "scandal", "crash", "scam", "warning"},
		BoringPhrases: []string{
			"megathread", "weekly thread", "daily thread", "discussion thread",
			"question", "advice", "opinion", "thoughts", "help me",
			"should i", "is it worth", "what do you think",
			"eli5", "ama", "rant", "vent", "update",
			"comprehensive list", "resource list", "guide to",
			"beginner", "getting started", "101", "basics",
			"reminder", "psa", "fyi", "til",
		},
		BoringPenalty:      25,
		QuestionPrefixes:   []string{"should i", "is it", "what do", "how do i", "can i", "would it"},
		QuestionPenalty:    30,
		FirstPersonMarkers: []string{"my ", "i'm ", "i am ", "i have ", "i just ", "i need "},
		FirstPersonPenalty: 20,
		PatternBonuses: []PatternBonus{
			{Name: "percent_rise", Pattern: `\p{Nd}+%[\s\p{Z}]*(increase|rise|jump|surge|spike|hike)`, Points: 15},
			{Name: "dollar_loss", Pattern: `\$[\p{Nd},]+[\s\p{Z}]*(lost|stolen|scam|fraud)`, Points: 15},
			{Name: "casualties", Pattern: `\p{Nd}+[\s\p{Z}]*(killed|dead|deaths|victims|injured)`, Points: 20},
		},
		ShoutBonus:       10,
		ExclamationBonus: 5,
		Categories:       defaultCategories(),
		HighEngagement: []CategoryID{
			CategoryPoliticsDrama, CategoryMoneyFears, CategoryScamsWarnings,
			CategoryCrimeSafety, CategoryOutrage,
		},
		CategoryBonus:    10,
		GenericThreshold: 20,
	}
}

// MildProfile runs the same algorithm with softer weights: partisan and
// outrage bait is demoted to the medium tier and penalties are lighter.
func MildProfile() *Profile {
	return &Profile{
		Name: ProfileMild,
		High: Tier{
			Points:     15,
			MaxMatches: 3,
			Keywords: []string{
				"shutdown", "default", "debt ceiling", "corruption", "scandal",
				"investigation", "indicted", "arrested", "charged",
				"warning", "alert", "danger", "recall", "deadly", "killed", "fatal",
				"crash", "collapse", "crisis", "emergency", "disaster",
				"scam", "fraud", "theft", "hacked", "data breach",
				"skyrocket", "surge", "spike", "plunge", "recession",
				"layoffs", "job cuts", "hiring freeze",
				"breaking", "just in", "exclusive",
			},
		},
		Medium: Tier{
			Points:     10,
			MaxMatches: 3,
			Keywords: []string{
				"trump", "biden", "congress", "senate", "outrage", "slammed", "leaked",
				"rates rising", "premiums", "insurance cost", "coverage denied",
				"rate hike", "price increase", "mortgage rates", "interest rates",
				"inflation", "cost of living", "hidden fees", "fine print", "overcharged",
				"outbreak", "side effects", "contaminated",
				"hurricane", "tornado", "flood", "wildfire", "earthquake", "storm",
				"crime", "robbery", "shooting", "home invasion",
			},
		},
		Low: Tier{
			Points: 3,
			Keywords: []string{
				"how to", "tips", "guide", "tutorial", "ways to",
				"best", "top", "review", "comparison", "explained",
			},
		},
		MarqueeTriggers: []string{"shutdown", "scandal", "crash", "scam", "warning", "recall"},
		BoringPhrases: []string{
			"megathread", "weekly thread", "daily thread", "discussion thread",
			"help me", "what do you think", "eli5", "ama", "rant",
			"comprehensive list", "resource list", "psa", "til",
		},
		BoringPenalty:      20,
		QuestionPrefixes:   []string{"should i", "is it", "what do", "how do i", "can i", "would it"},
		QuestionPenalty:    25,
		FirstPersonMarkers: []string{"my ", "i'm ", "i am ", "i have ", "i just ", "i need "},
		FirstPersonPenalty: 15,
		PatternBonuses: []PatternBonus{
			{Name: "percent_rise", Pattern: `\p{Nd}+%[\s\p{Z}]*(increase|rise|jump|surge|spike|hike)`, Points: 10},
			{Name: "dollar_loss", Pattern: `\$[\p{Nd},]+[\s\p{Z}]*(lost|stolen|scam|fraud)`, Points: 10},
			{Name: "casualties", Pattern: `\p{Nd}+[\s\p{Z}]*(killed|dead|deaths|victims|injured)`, Points: 15},
		},
		ShoutBonus:       5,
		ExclamationBonus: 3,
		Categories:       defaultCategories(),
		HighEngagement: []CategoryID{
			CategoryMoneyFears, CategoryScamsWarnings, CategoryCrimeSafety,
		},
		CategoryBonus:    5,
		GenericThreshold: 20,
	}
}

func defaultCategories() []CategoryRule {
	return []CategoryRule{
		{ID: CategoryPoliticsDrama, Keywords: []string{
			"trump", "biden", "maga", "democrat", "republican", "congress", "senate",
			"shutdown", "scandal", "investigation", "indicted", "woke", "liberal", "conservative",
		}},
		{ID: CategoryMoneyFears, Keywords: []string{
			"recession", "inflation", "layoffs", "unemployment", "crash", "plunge",
			"can't afford", "skyrocket", "surge", "spike", "priced out", "struggling",
		}},
		{ID: CategoryScamsWarnings, Keywords: []string{
			"scam", "fraud", "warning", "alert", "ripoff", "hacked", "stolen",
			"exposed", "caught", "busted", "hidden fees",
		}},
		{ID: CategoryRatesEconomy, Keywords: []string{
			"rate", "interest", "fed", "mortgage rate", "insurance rate", "premium", "price hike",
		}},
		{ID: CategoryInsuranceNews, Keywords: []string{
			"insurance", "coverage", "claim denied", "policy", "premium", "deductible",
		}},
		{ID: CategoryCrimeSafety, Keywords: []string{
			"crime", "shooting", "murder", "robbery", "assault", "arrest", "killed", "death",
		}},
		{ID: CategoryDisasters, Keywords: []string{
			"hurricane", "tornado", "flood", "wildfire", "earthquake", "storm", "devastation", "damage",
		}},
		{ID: CategoryHealthScares, Keywords: []string{
			"recall", "cancer", "disease", "outbreak", "contaminated", "dangerous", "side effects",
		}},
		{ID: CategoryOutrage, Keywords: []string{
			"outrage", "furious", "slammed", "blasted", "destroyed", "lied", "betrayed", "caught on camera",
		}},
	}
}
