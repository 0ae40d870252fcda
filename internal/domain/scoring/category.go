package scoring

import (
	"encoding/json"
	"slices"
)

// CategoryID names a semantic category a headline can fall into.
type CategoryID string

// Built-in category ids used by the bundled profiles.
const (
	CategoryPoliticsDrama CategoryID = "politics_drama"
	CategoryMoneyFears    CategoryID = "money_fears"
	CategoryScamsWarnings CategoryID = "scams_warnings"
	CategoryRatesEconomy  CategoryID = "rates_economy"
	CategoryInsuranceNews CategoryID = "insurance_news"
	CategoryCrimeSafety   CategoryID = "crime_safety"
	CategoryDisasters     CategoryID = "disasters"
	CategoryHealthScares  CategoryID = "health_scares"
	CategoryOutrage       CategoryID = "outrage"
)

// CategorySet is an unordered set of category ids. It serializes as a sorted
// JSON array so output is stable.
type CategorySet map[CategoryID]struct{}

// NewCategorySet builds a set from ids.
func NewCategorySet(ids ...CategoryID) CategorySet {
	s := make(CategorySet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set.
func (s CategorySet) Add(id CategoryID) { s[id] = struct{}{} }

// Has reports membership.
func (s CategorySet) Has(id CategoryID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of categories.
func (s CategorySet) Len() int { return len(s) }

// Sorted returns the ids in lexical order.
func (s CategorySet) Sorted() []CategoryID {
	out := make([]CategoryID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON writes the set as a sorted array; a nil set becomes [].
func (s CategorySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON accepts an array of ids. Duplicates collapse.
func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var ids []CategoryID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewCategorySet(ids...)
	return nil
}
