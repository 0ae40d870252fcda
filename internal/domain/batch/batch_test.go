package batch_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/newsheat/internal/domain/batch"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeModel answers from a table keyed by article ID.
type fakeModel struct {
	mu       sync.Mutex
	calls    []string
	results  map[string]batch.ModelResult
	fail     map[string]error
	block    bool
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeModel) ScoreArticle(ctx context.Context, a model.Article) (batch.ModelResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, a.ID)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return batch.ModelResult{}, ctx.Err()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.fail[a.ID]; ok {
		return batch.ModelResult{}, err
	}
	return f.results[a.ID], nil
}

func articles() []model.Article {
	return []model.Article{
		{ID: "forum", Title: "My thoughts on the weekly megathread"},
		{ID: "fed", Title: "Fed cuts rates"},
		{ID: "scam", Title: "Scam fraud ripoff theft hacked"},
		{ID: "advice", Title: "Should I refinance?"},
	}
}

func ids(items []model.ScoredArticle) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestRunner_Heuristic(t *testing.T) {
	Convey("Given a runner without a model", t, func() {
		r := batch.NewRunner()
		ctx := context.Background()

		Convey("When a batch is scored", func() {
			out := r.Run(ctx, articles(), false)

			Convey("Then it is sorted by score and ties keep input order", func() {
				So(ids(out), ShouldResemble, []string{"scam", "fed", "forum", "advice"})
				So(out[0].RelevanceScore, ShouldEqual, 70)
				So(out[1].RelevanceScore, ShouldEqual, 12)
				So(out[2].RelevanceScore, ShouldEqual, 0)
			})

			Convey("Then every item is marked as heuristic", func() {
				for _, it := range out {
					So(it.ScoredBy, ShouldEqual, model.ScoredByHeuristic)
				}
			})
		})

		Convey("When the model path is requested", func() {
			out := r.Run(ctx, articles(), true)

			Convey("Then the heuristic is used for every item", func() {
				So(r.ModelEnabled(), ShouldBeFalse)
				So(ids(out), ShouldResemble, []string{"scam", "fed", "forum", "advice"})
			})
		})

		Convey("When the batch is empty", func() {
			Convey("Then the result is empty", func() {
				So(r.Run(ctx, nil, false), ShouldBeEmpty)
			})
		})

		Convey("When articles carry extra fields", func() {
			in := []model.Article{{
				ID:    "x",
				Title: "Scam alert",
				Extra: map[string]json.RawMessage{"author": json.RawMessage(`"Jane"`)},
			}}
			out := r.Run(ctx, in, false)

			Convey("Then they pass through untouched", func() {
				So(string(out[0].Extra["author"]), ShouldEqual, `"Jane"`)
				So(out[0].Title, ShouldEqual, "Scam alert")
			})
		})

		Convey("When decoded items carry ids, dates and summaries in their own forms", func() {
			payload := `[{"id":7,"title":"Scam alert","published_at":"2025-10-01"},` +
				`{"id":"b","title":"Fed cuts rates","summary":"","published_at":"2025-10-01T12:00:00+02:00"}]`
			var in []model.Article
			So(json.Unmarshal([]byte(payload), &in), ShouldBeNil)

			out := r.Run(ctx, in, false)
			body, err := json.Marshal(out)
			So(err, ShouldBeNil)

			Convey("Then the batch is scored", func() {
				So(out, ShouldHaveLength, 2)
				So(ids(out), ShouldContain, "7")
			})

			Convey("Then each value is returned as it was sent", func() {
				So(string(body), ShouldContainSubstring, `"id":7`)
				So(string(body), ShouldContainSubstring, `"published_at":"2025-10-01"`)
				So(string(body), ShouldContainSubstring, `"published_at":"2025-10-01T12:00:00+02:00"`)
				So(string(body), ShouldContainSubstring, `"summary":""`)
			})
		})

		Convey("When a custom profile is used", func() {
			mild, err := scoring.ProfileByName(scoring.ProfileMild)
			So(err, ShouldBeNil)
			h, err := scoring.NewHeuristic(scoring.WithProfile(mild))
			So(err, ShouldBeNil)
			out := batch.NewRunner(batch.WithScorer(h)).Run(ctx,
				[]model.Article{{ID: "h", Title: "BREAKING: Trump Slams Congress Over Shutdown Scandal!"}}, false)

			Convey("Then its weights apply", func() {
				So(out[0].RelevanceScore, ShouldEqual, 73)
			})
		})
	})
}

func TestRunner_Model(t *testing.T) {
	Convey("Given a runner with a model scorer", t, func() {
		ctx := context.Background()
		fm := &fakeModel{
			results: map[string]batch.ModelResult{
				"forum":  {Score: 15, HookPotential: "low"},
				"fed":    {Score: 88, Categories: scoring.NewCategorySet("rates"), EmotionalTriggers: []string{"relief"}, CopyAngle: "Rates just moved"},
				"scam":   {Score: 150},
				"advice": {Score: 40},
			},
			fail: map[string]error{},
		}

		Convey("When every call succeeds", func() {
			r := batch.NewRunner(batch.WithModel(fm))
			out := r.Run(ctx, articles(), true)

			Convey("Then model scores drive the order", func() {
				So(ids(out), ShouldResemble, []string{"scam", "fed", "advice", "forum"})
				So(out[0].RelevanceScore, ShouldEqual, 100)
				So(out[1].CopyAngle, ShouldEqual, "Rates just moved")
				So(out[1].Categories.Has("rates"), ShouldBeTrue)
				So(out[3].IsGeneric, ShouldBeTrue)
				for _, it := range out {
					So(it.ScoredBy, ShouldEqual, model.ScoredByModel)
				}
			})

			Convey("Then the model was asked once per article", func() {
				So(fm.calls, ShouldHaveLength, 4)
			})
		})

		Convey("When one call fails", func() {
			fm.fail["fed"] = errors.New("upstream 500")
			out := batch.NewRunner(batch.WithModel(fm)).Run(ctx, articles(), true)

			Convey("Then only that article falls back to the heuristic", func() {
				byID := map[string]model.ScoredArticle{}
				for _, it := range out {
					byID[it.ID] = it
				}
				So(byID["fed"].ScoredBy, ShouldEqual, model.ScoredByHeuristic)
				So(byID["fed"].RelevanceScore, ShouldEqual, 12)
				So(byID["scam"].ScoredBy, ShouldEqual, model.ScoredByModel)
				So(out, ShouldHaveLength, 4)
			})
		})

		Convey("When the model hangs", func() {
			fm.block = true
			r := batch.NewRunner(batch.WithModel(fm), batch.WithModelTimeout(20*time.Millisecond))
			start := time.Now()
			out := r.Run(ctx, articles(), true)

			Convey("Then each call times out and the heuristic answers", func() {
				So(time.Since(start), ShouldBeLessThan, 2*time.Second)
				So(ids(out), ShouldResemble, []string{"scam", "fed", "forum", "advice"})
				for _, it := range out {
					So(it.ScoredBy, ShouldEqual, model.ScoredByHeuristic)
				}
			})
		})

		Convey("When calls are slow", func() {
			fm.delay = 20 * time.Millisecond
			in := make([]model.Article, 0, 12)
			for range 3 {
				in = append(in, articles()...)
			}
			batch.NewRunner(batch.WithModel(fm), batch.WithConcurrency(2)).Run(ctx, in, true)

			Convey("Then no more than the limit run at once", func() {
				So(fm.peak.Load(), ShouldBeLessThanOrEqualTo, 2)
				So(fm.peak.Load(), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When useAI is off", func() {
			out := batch.NewRunner(batch.WithModel(fm)).Run(ctx, articles(), false)

			Convey("Then the model is not called", func() {
				So(fm.calls, ShouldBeEmpty)
				So(out[0].ScoredBy, ShouldEqual, model.ScoredByHeuristic)
			})
		})
	})
}
