package model_test

import (
	"encoding/json"
	"testing"
	"time"

	model "github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestArticle(t *testing.T) {
	convey.Convey("Given an article payload with unknown fields", t, func() {
		payload := `{"id":"a1","title":"Fed cuts rates","url":"https://x.test/a1",` +
			`"published_at":"2025-10-01T12:00:00Z","author":"Jane","tags":["econ"],"rank":3}`

		convey.Convey("When it is decoded", func() {
			var a model.Article
			err := json.Unmarshal([]byte(payload), &a)

			convey.Convey("Then known fields are typed and the rest kept raw", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.ID, convey.ShouldEqual, "a1")
				convey.So(a.Title, convey.ShouldEqual, "Fed cuts rates")
				convey.So(a.PublishedAt.Equal(time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
				convey.So(a.Extra, convey.ShouldHaveLength, 3)
				convey.So(string(a.Extra["author"]), convey.ShouldEqual, `"Jane"`)
			})

			convey.Convey("Then encoding it again keeps the unknown fields", func() {
				out, err := json.Marshal(a)
				convey.So(err, convey.ShouldBeNil)

				var back map[string]any
				convey.So(json.Unmarshal(out, &back), convey.ShouldBeNil)
				convey.So(back["author"], convey.ShouldEqual, "Jane")
				convey.So(back["tags"], convey.ShouldResemble, []any{"econ"})
				convey.So(back["rank"], convey.ShouldEqual, 3.0)
			})
		})

		convey.Convey("When the published_at value cannot be read", func() {
			var a model.Article
			err := json.Unmarshal([]byte(`{"title":"x","published_at":"yesterday"}`), &a)

			convey.Convey("Then the time stays zero and the value is written back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(a.PublishedAt.IsZero(), convey.ShouldBeTrue)

				out, err := json.Marshal(a)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldContainSubstring, `"published_at":"yesterday"`)
			})
		})
	})

	convey.Convey("Given known fields in forms other than plain strings", t, func() {
		payload := `{"id":7,"title":"Fed cuts rates","summary":"",` +
			`"published_at":"2025-10-01T12:00:00+02:00","source":null}`

		convey.Convey("When decoded and encoded again", func() {
			var a model.Article
			err := json.Unmarshal([]byte(payload), &a)
			convey.So(err, convey.ShouldBeNil)

			out, err := json.Marshal(a)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then typed fields are filled where they can be", func() {
				convey.So(a.ID, convey.ShouldEqual, "7")
				convey.So(a.Key(), convey.ShouldEqual, "7")
				convey.So(a.PublishedAt.Equal(time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
			})

			convey.Convey("Then every value comes back byte for byte", func() {
				convey.So(string(out), convey.ShouldContainSubstring, `"id":7`)
				convey.So(string(out), convey.ShouldContainSubstring, `"summary":""`)
				convey.So(string(out), convey.ShouldContainSubstring, `"published_at":"2025-10-01T12:00:00+02:00"`)
				convey.So(string(out), convey.ShouldContainSubstring, `"source":null`)
			})
		})

		convey.Convey("When a date-only timestamp is decoded", func() {
			var a model.Article
			convey.So(json.Unmarshal([]byte(`{"title":"x","published_at":"2025-10-01"}`), &a), convey.ShouldBeNil)

			convey.Convey("Then it is read as midnight UTC and kept as sent", func() {
				convey.So(a.PublishedAt.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
				out, err := json.Marshal(a)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldContainSubstring, `"published_at":"2025-10-01"`)
			})
		})

		convey.Convey("When a decoded field is changed before encoding", func() {
			var a model.Article
			convey.So(json.Unmarshal([]byte(payload), &a), convey.ShouldBeNil)
			a.ID = "fresh"

			convey.Convey("Then the new value wins", func() {
				out, err := json.Marshal(a)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldContainSubstring, `"id":"fresh"`)
			})
		})
	})

	convey.Convey("Given articles with and without a URL", t, func() {
		convey.Convey("Then the key prefers the URL", func() {
			convey.So(model.Article{ID: "1", URL: "https://x.test"}.Key(), convey.ShouldEqual, "https://x.test")
			convey.So(model.Article{ID: "1"}.Key(), convey.ShouldEqual, "1")
		})
	})
}

func TestScoredArticle(t *testing.T) {
	convey.Convey("Given an article scored by the heuristic", t, func() {
		a := model.Article{ID: "a1", Title: "Scam alert", Extra: map[string]json.RawMessage{"author": json.RawMessage(`"Jane"`)}}
		res := scoring.Default().Score(scoring.Input{Title: a.Title})
		s := model.FromResult(a, res)

		convey.Convey("Then the score fields are copied", func() {
			convey.So(s.RelevanceScore, convey.ShouldEqual, res.Score)
			convey.So(s.ScoredBy, convey.ShouldEqual, model.ScoredByHeuristic)
			convey.So(s.Categories.Has(scoring.CategoryScamsWarnings), convey.ShouldBeTrue)
		})

		convey.Convey("When encoded", func() {
			out, err := json.Marshal(s)
			convey.So(err, convey.ShouldBeNil)

			var flat map[string]any
			convey.So(json.Unmarshal(out, &flat), convey.ShouldBeNil)

			convey.Convey("Then article and score fields sit side by side", func() {
				convey.So(flat["id"], convey.ShouldEqual, "a1")
				convey.So(flat["author"], convey.ShouldEqual, "Jane")
				convey.So(flat["relevance_score"], convey.ShouldEqual, float64(res.Score))
				convey.So(flat["categories"], convey.ShouldResemble, []any{"scams_warnings"})
				convey.So(flat["scored_by"], convey.ShouldEqual, "heuristic")
			})

			convey.Convey("Then decoding restores the same article", func() {
				var back model.ScoredArticle
				convey.So(json.Unmarshal(out, &back), convey.ShouldBeNil)
				convey.So(back.RelevanceScore, convey.ShouldEqual, s.RelevanceScore)
				convey.So(back.Categories.Sorted(), convey.ShouldResemble, s.Categories.Sorted())
				convey.So(back.Extra, convey.ShouldHaveLength, 1)
				convey.So(back.Title, convey.ShouldEqual, "Scam alert")
			})
		})
	})

	convey.Convey("Given a scored payload from an external model", t, func() {
		payload := `{"title":"x","relevance_score":72.6,"categories":["money","money"],"hook_potential":"fear"}`

		convey.Convey("When decoded", func() {
			var s model.ScoredArticle
			err := json.Unmarshal([]byte(payload), &s)

			convey.Convey("Then fractional scores round and categories collapse", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.RelevanceScore, convey.ShouldEqual, 73)
				convey.So(s.Categories.Len(), convey.ShouldEqual, 1)
				convey.So(s.HookPotential, convey.ShouldEqual, "fear")
				convey.So(s.Extra, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the article fields use a numeric id", func() {
			var s model.ScoredArticle
			err := json.Unmarshal([]byte(`{"id":42,"title":"x","relevance_score":10,"summary":""}`), &s)

			convey.Convey("Then it decodes and encodes back unchanged", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.ID, convey.ShouldEqual, "42")
				out, err := json.Marshal(s)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldContainSubstring, `"id":42`)
				convey.So(string(out), convey.ShouldContainSubstring, `"summary":""`)
			})
		})

		convey.Convey("When the score is out of range", func() {
			var s model.ScoredArticle
			convey.So(json.Unmarshal([]byte(`{"title":"x","relevance_score":140}`), &s), convey.ShouldBeNil)

			convey.Convey("Then it is clamped", func() {
				convey.So(s.RelevanceScore, convey.ShouldEqual, 100)
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	convey.Convey("Given a scored batch", t, func() {
		items := []model.ScoredArticle{
			{RelevanceScore: 85, Categories: scoring.NewCategorySet(scoring.CategoryPoliticsDrama), EmotionalTriggers: []string{"trump", "scandal"}},
			{RelevanceScore: 10, IsGeneric: true, Categories: scoring.NewCategorySet()},
			{RelevanceScore: 50, Categories: scoring.NewCategorySet(scoring.CategoryMoneyFears, scoring.CategoryPoliticsDrama), EmotionalTriggers: []string{"crash", "crash", "trump"}},
		}

		convey.Convey("When summarized", func() {
			sum := model.Summarize(items)

			convey.Convey("Then counts and means are computed", func() {
				convey.So(sum.Count, convey.ShouldEqual, 3)
				convey.So(sum.MeanScore, convey.ShouldEqual, 48.33)
				convey.So(sum.MaxScore, convey.ShouldEqual, 85)
				convey.So(sum.GenericCount, convey.ShouldEqual, 1)
				convey.So(sum.Categories[scoring.CategoryPoliticsDrama], convey.ShouldEqual, 2)
			})

			convey.Convey("Then triggers are distinct and sorted on output", func() {
				out, err := json.Marshal(sum.Triggers)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldEqual, `["crash","scandal","trump"]`)
			})
		})
	})

	convey.Convey("Given an empty batch", t, func() {
		sum := model.Summarize(nil)

		convey.Convey("Then the summary is zero but not nil", func() {
			convey.So(sum.Count, convey.ShouldEqual, 0)
			convey.So(sum.Categories, convey.ShouldNotBeNil)
			convey.So(sum.Triggers, convey.ShouldNotBeNil)
		})
	})
}
