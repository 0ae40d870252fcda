package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/newsheat/internal/adapters/llm"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const modelAnswer = "```json\n" + `{"score": 78.6, "categories": ["Money Fears", "politics_drama"],
"emotional_triggers": ["fear", " "], "hook_potential": "fear of loss", "copy_angle": "Protect your savings"}` + "\n```"

func anthropicServer(t *testing.T, status int, text string, seen *atomic.Value) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if seen != nil {
			seen.Store(map[string]any{
				"path":    r.URL.Path,
				"key":     r.Header.Get("x-api-key"),
				"version": r.Header.Get("anthropic-version"),
				"body":    body,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": text}},
		})
	}))
}

func TestNew(t *testing.T) {
	Convey("Given client construction", t, func() {
		Convey("When the provider is unknown", func() {
			_, err := llm.New("gemini", "key")
			So(errors.Is(err, llm.ErrUnknownProvider), ShouldBeTrue)
		})

		Convey("When the key is missing", func() {
			_, err := llm.New(llm.ProviderOpenAI, " ")
			So(errors.Is(err, llm.ErrMissingAPIKey), ShouldBeTrue)
		})

		Convey("When the provider name has different case", func() {
			c, err := llm.New("Anthropic", "key", llm.WithModel("claude-x"))
			So(err, ShouldBeNil)
			So(c.Provider(), ShouldEqual, llm.ProviderAnthropic)
			So(c.Model(), ShouldEqual, "claude-x")
		})
	})
}

func TestScoreArticleAnthropic(t *testing.T) {
	Convey("Given an anthropic endpoint that answers in a code fence", t, func() {
		var seen atomic.Value
		srv := anthropicServer(t, http.StatusOK, modelAnswer, &seen)
		defer srv.Close()

		c, err := llm.New(llm.ProviderAnthropic, "secret", llm.WithBaseURL(srv.URL+"/"))
		So(err, ShouldBeNil)

		Convey("When an article is scored", func() {
			res, err := c.ScoreArticle(context.Background(), model.Article{
				Title:   "Bank failure wipes out savings",
				Summary: strings.Repeat("x", 800),
			})

			Convey("Then the answer is decoded and normalized", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 79)
				So(res.Categories.Has(scoring.CategoryMoneyFears), ShouldBeTrue)
				So(res.Categories.Has(scoring.CategoryPoliticsDrama), ShouldBeTrue)
				So(res.EmotionalTriggers, ShouldResemble, []string{"fear"})
				So(res.HookPotential, ShouldEqual, "fear of loss")
				So(res.CopyAngle, ShouldEqual, "Protect your savings")
			})

			Convey("Then the request carries the prompt and headers", func() {
				req := seen.Load().(map[string]any)
				So(req["path"], ShouldEqual, "/v1/messages")
				So(req["key"], ShouldEqual, "secret")
				So(req["version"], ShouldEqual, "2023-06-01")

				body := req["body"].(map[string]any)
				So(body["max_tokens"], ShouldEqual, 500.0)
				msg := body["messages"].([]any)[0].(map[string]any)["content"].(string)
				So(msg, ShouldContainSubstring, "HEADLINE: Bank failure wipes out savings")
				So(msg, ShouldContainSubstring, "SUMMARY: "+strings.Repeat("x", 500)+"\n")
			})
		})

		Convey("When the summary is empty", func() {
			_, err := c.ScoreArticle(context.Background(), model.Article{Title: "Quiet day"})
			So(err, ShouldBeNil)

			body := seen.Load().(map[string]any)["body"].(map[string]any)
			msg := body["messages"].([]any)[0].(map[string]any)["content"].(string)
			So(msg, ShouldContainSubstring, "SUMMARY: N/A")
		})
	})

	Convey("Given an endpoint that fails", t, func() {
		srv := anthropicServer(t, http.StatusTooManyRequests, "slow down", nil)
		defer srv.Close()
		c, _ := llm.New(llm.ProviderAnthropic, "secret", llm.WithBaseURL(srv.URL))

		Convey("Then the status is reported as an error", func() {
			_, err := c.ScoreArticle(context.Background(), model.Article{Title: "x"})
			So(errors.Is(err, llm.ErrModelStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "429")
		})
	})

	Convey("Given an endpoint that answers with prose", t, func() {
		srv := anthropicServer(t, http.StatusOK, "I cannot score this.", nil)
		defer srv.Close()
		c, _ := llm.New(llm.ProviderAnthropic, "secret", llm.WithBaseURL(srv.URL))

		Convey("Then the answer is rejected", func() {
			_, err := c.ScoreArticle(context.Background(), model.Article{Title: "x"})
			So(errors.Is(err, llm.ErrModelResponse), ShouldBeTrue)
		})
	})

	Convey("Given an endpoint that returns no text", t, func() {
		srv := anthropicServer(t, http.StatusOK, "", nil)
		defer srv.Close()
		c, _ := llm.New(llm.ProviderAnthropic, "secret", llm.WithBaseURL(srv.URL))

		Convey("Then the empty answer is rejected", func() {
			_, err := c.ScoreArticle(context.Background(), model.Article{Title: "x"})
			So(errors.Is(err, llm.ErrModelResponse), ShouldBeTrue)
		})
	})

	Convey("Given an endpoint slower than the timeout", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		c, _ := llm.New(llm.ProviderAnthropic, "secret", llm.WithBaseURL(srv.URL), llm.WithTimeout(20*time.Millisecond))

		Convey("Then the call fails instead of hanging", func() {
			start := time.Now()
			_, err := c.ScoreArticle(context.Background(), model.Article{Title: "x"})
			So(err, ShouldNotBeNil)
			So(time.Since(start), ShouldBeLessThan, 500*time.Millisecond)
		})
	})
}

func TestScoreArticleOpenAI(t *testing.T) {
	Convey("Given an openai endpoint", t, func() {
		var auth atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth.Store(r.Header.Get("Authorization") + " " + r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{{"message": map[string]string{
					"content": `Sure! {"score": 42, "categories": [], "emotional_triggers": ["curiosity"]} Hope that helps.`,
				}}},
			})
		}))
		defer srv.Close()

		c, err := llm.New(llm.ProviderOpenAI, "sk-test", llm.WithBaseURL(srv.URL), llm.WithRatePerSecond(50))
		So(err, ShouldBeNil)

		Convey("When an article is scored", func() {
			res, err := c.ScoreArticle(context.Background(), model.Article{Title: "Rates rise"})

			Convey("Then the embedded object is used", func() {
				So(err, ShouldBeNil)
				So(res.Score, ShouldEqual, 42)
				So(res.Categories.Len(), ShouldEqual, 0)
				So(res.EmotionalTriggers, ShouldResemble, []string{"curiosity"})
				So(auth.Load(), ShouldEqual, "Bearer sk-test /v1/chat/completions")
			})
		})

		Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := c.ScoreArticle(ctx, model.Article{Title: "Rates rise"})

			Convey("Then the call fails", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
