// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// JSON keys owned by Article. Any other key is carried in Extra.
const (
	keyID          = "id"
	keyTitle       = "title"
	keySummary     = "summary"
	keyURL         = "url"
	keySource      = "source"
	keyPublishedAt = "published_at"
)

// publishedLayouts are tried in order when reading published_at.
var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Article is a news item as submitted by a client or read from a feed.
type Article struct {
	ID          string
	Title       string
	Summary     string
	URL         string
	Source      string
	PublishedAt time.Time // zero when unknown or unparseable

	// Extra holds fields the service does not interpret; they are written
	// back exactly as received.
	Extra map[string]json.RawMessage

	// received keeps the decoded bytes of the known keys. A known key whose
	// typed value is unchanged is written back from here.
	received map[string]json.RawMessage
}

// Key identifies the article for duplicate detection: the URL when present,
// else the ID.
func (a Article) Key() string {
	if a.URL != "" {
		return a.URL
	}
	return a.ID
}

// MarshalJSON merges the known fields over Extra.
func (a Article) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.fields())
}

// UnmarshalJSON reads the known fields and keeps everything else in Extra.
// Known fields never fail to decode: a value that does not fit its typed
// field leaves the field empty and is written back as received.
func (a *Article) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.fromFields(raw)
	return nil
}

func (a Article) fields() map[string]any {
	m := make(map[string]any, len(a.Extra)+6)
	for k, v := range a.Extra {
		m[k] = v
	}
	a.putString(m, keyID, a.ID, false)
	a.putString(m, keyTitle, a.Title, true)
	a.putString(m, keySummary, a.Summary, false)
	a.putString(m, keyURL, a.URL, false)
	a.putString(m, keySource, a.Source, false)

	if v, ok := a.received[keyPublishedAt]; ok && parsePublished(v).Equal(a.PublishedAt) {
		m[keyPublishedAt] = v
	} else if !a.PublishedAt.IsZero() {
		m[keyPublishedAt] = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return m
}

func (a Article) putString(m map[string]any, key, val string, always bool) {
	if v, ok := a.received[key]; ok && textOf(v) == val {
		m[key] = v
		return
	}
	if always || val != "" {
		m[key] = val
	}
}

// fromFields consumes the known keys from raw; what remains becomes Extra.
func (a *Article) fromFields(raw map[string]json.RawMessage) {
	*a = Article{}
	for key, dst := range map[string]*string{
		keyID:      &a.ID,
		keyTitle:   &a.Title,
		keySummary: &a.Summary,
		keyURL:     &a.URL,
		keySource:  &a.Source,
	} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		a.keep(key, v)
		delete(raw, key)
		*dst = textOf(v)
	}

	if v, ok := raw[keyPublishedAt]; ok {
		a.keep(keyPublishedAt, v)
		delete(raw, keyPublishedAt)
		a.PublishedAt = parsePublished(v)
	}

	if len(raw) > 0 {
		a.Extra = raw
	}
}

func (a *Article) keep(key string, v json.RawMessage) {
	if a.received == nil {
		a.received = make(map[string]json.RawMessage, 6)
	}
	a.received[key] = v
}

// textOf returns the text of a JSON string, or the literal of a number or
// boolean. Other values yield "".
func textOf(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || isNull(v) {
		return ""
	}
	switch v[0] {
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return ""
		}
		return s
	case '{', '[':
		return ""
	default:
		return string(v)
	}
}

// parsePublished reads a timestamp string. The zero time is returned for
// anything it cannot read.
func parsePublished(v json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(v, &s); err != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func isNull(v json.RawMessage) bool {
	return string(v) == "null"
}
