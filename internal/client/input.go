package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/okian/newsheat/internal/domain/model"
)

// ErrNoArticles is returned by ReadArticles for input without articles.
var ErrNoArticles = errors.New("no articles in input")

// ReadArticles decodes a JSON array of articles, or an object holding them
// under "articles" as the batch endpoint takes them.
func ReadArticles(r io.Reader) ([]model.Article, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoArticles
	}

	var out []model.Article
	if data[0] == '[' {
		err = json.Unmarshal(data, &out)
	} else {
		var wrapped struct {
			Articles []model.Article `json:"articles"`
		}
		err = json.Unmarshal(data, &wrapped)
		out = wrapped.Articles
	}
	if err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoArticles
	}
	return out, nil
}
