// Package categorize sorts scored articles into display buckets.
package categorize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/newsheat/internal/domain/model"
)

// Group is one non-empty bucket.
type Group struct {
	Label    string
	Articles []model.ScoredArticle
}

// Groups is the bucketed result in layout priority order.
type Groups []Group

// Get returns the articles in the bucket with label.
func (g Groups) Get(label string) ([]model.ScoredArticle, bool) {
	for _, grp := range g {
		if grp.Label == label {
			return grp.Articles, true
		}
	}
	return nil, false
}

// Labels returns the bucket labels in order.
func (g Groups) Labels() []string {
	out := make([]string, len(g))
	for i, grp := range g {
		out[i] = grp.Label
	}
	return out
}

// MarshalJSON writes a JSON object whose keys keep bucket order.
func (g Groups) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, grp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(grp.Label)
		if err != nil {
			return nil, err
		}
		articles := grp.Articles
		if articles == nil {
			articles = []model.ScoredArticle{}
		}
		val, err := json.Marshal(articles)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (g *Groups) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("groups: expected object, got %v", tok)
	}
	out := Groups{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("groups: expected key, got %v", tok)
		}
		var articles []model.ScoredArticle
		if err := dec.Decode(&articles); err != nil {
			return fmt.Errorf("groups: %s: %w", label, err)
		}
		out = append(out, Group{Label: label, Articles: articles})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}

// Categorizer places scored articles into buckets. It is stateless after
// construction and safe for concurrent use.
type Categorizer struct {
	layout Layout
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithLayout replaces the default layout.
func WithLayout(l Layout) Option {
	return func(c *Categorizer) {
		c.layout = l
	}
}

// New builds a Categorizer, validating its layout.
func New(opts ...Option) (*Categorizer, error) {
	c := &Categorizer{layout: DefaultLayout()}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.layout.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a Categorizer with the default layout.
func Default() *Categorizer {
	return &Categorizer{layout: DefaultLayout()}
}

// Layout returns the layout in use.
func (c *Categorizer) Layout() Layout { return c.layout }

// Place returns the label of the bucket a single article belongs in.
func (c *Categorizer) Place(a model.ScoredArticle) string {
	if a.RelevanceScore >= c.layout.HotThreshold {
		return c.layout.HotLabel
	}
	for _, m := range c.layout.Table {
		if a.Categories.Has(m.Category) {
			return m.Label
		}
	}
	return c.layout.OtherLabel
}

// Group buckets items. Every article lands in exactly one bucket, empty
// buckets are left out and input order is kept inside a bucket.
func (c *Categorizer) Group(items []model.ScoredArticle) Groups {
	buckets := make(map[string][]model.ScoredArticle)
	for _, it := range items {
		label := c.Place(it)
		buckets[label] = append(buckets[label], it)
	}

	out := make(Groups, 0, len(buckets))
	for _, label := range c.layout.Priority {
		if arts, ok := buckets[label]; ok {
			out = append(out, Group{Label: label, Articles: arts})
		}
	}
	return out
}
