package categorize_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/okian/newsheat/internal/domain/categorize"
	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func scored(id string, score int, cats ...scoring.CategoryID) model.ScoredArticle {
	return model.ScoredArticle{
		Article:        model.Article{ID: id, Title: "title " + id},
		RelevanceScore: score,
		Categories:     scoring.NewCategorySet(cats...),
	}
}

func TestCategorizer_Group(t *testing.T) {
	Convey("Given the default categorizer", t, func() {
		c := categorize.Default()

		Convey("When an article scores at the hot threshold", func() {
			groups := c.Group([]model.ScoredArticle{scored("a", 70, scoring.CategoryDisasters)})

			Convey("Then it is a hot take whatever its categories", func() {
				So(groups.Labels(), ShouldResemble, []string{categorize.LabelHotTakes})
			})
		})

		Convey("When an article carries several mapped categories", func() {
			groups := c.Group([]model.ScoredArticle{
				scored("a", 40, scoring.CategoryHealthScares, scoring.CategoryOutrage, scoring.CategoryRatesEconomy),
			})

			Convey("Then the first category in table order wins", func() {
				So(groups.Labels(), ShouldResemble, []string{categorize.LabelOutrage})
			})
		})

		Convey("When an article has no mapped category", func() {
			groups := c.Group([]model.ScoredArticle{
				scored("a", 69),
				scored("b", 10, "sports"),
			})

			Convey("Then it goes to the catch-all bucket", func() {
				arts, ok := groups.Get(categorize.LabelOther)
				So(ok, ShouldBeTrue)
				So(arts, ShouldHaveLength, 2)
			})
		})

		Convey("When a mixed batch is grouped", func() {
			items := []model.ScoredArticle{
				scored("other", 5),
				scored("health", 30, scoring.CategoryHealthScares),
				scored("hot2", 71, scoring.CategoryOutrage),
				scored("money1", 50, scoring.CategoryMoneyFears),
				scored("hot1", 95),
				scored("money2", 20, scoring.CategoryMoneyFears, scoring.CategoryDisasters),
			}
			groups := c.Group(items)

			Convey("Then buckets follow priority order and empties are dropped", func() {
				So(groups.Labels(), ShouldResemble, []string{
					categorize.LabelHotTakes, categorize.LabelMoneyFears,
					categorize.LabelHealthScares, categorize.LabelOther,
				})
			})

			Convey("Then every article appears exactly once", func() {
				seen := map[string]int{}
				for _, g := range groups {
					for _, a := range g.Articles {
						seen[a.ID]++
					}
				}
				So(seen, ShouldHaveLength, len(items))
				for _, n := range seen {
					So(n, ShouldEqual, 1)
				}
			})

			Convey("Then input order is kept inside a bucket", func() {
				hot, _ := groups.Get(categorize.LabelHotTakes)
				So(hot[0].ID, ShouldEqual, "hot2")
				So(hot[1].ID, ShouldEqual, "hot1")
				money, _ := groups.Get(categorize.LabelMoneyFears)
				So(money[0].ID, ShouldEqual, "money1")
				So(money[1].ID, ShouldEqual, "money2")
			})

			Convey("Then the JSON object keeps bucket order", func() {
				out, err := json.Marshal(groups)
				So(err, ShouldBeNil)
				s := string(out)
				So(strings.Index(s, categorize.LabelHotTakes), ShouldBeLessThan, strings.Index(s, categorize.LabelMoneyFears))
				So(strings.Index(s, categorize.LabelHealthScares), ShouldBeLessThan, strings.Index(s, categorize.LabelOther))

				var back categorize.Groups
				So(json.Unmarshal(out, &back), ShouldBeNil)
				So(back.Labels(), ShouldResemble, groups.Labels())
			})
		})

		Convey("When nothing is grouped", func() {
			groups := c.Group(nil)

			Convey("Then the result is an empty object", func() {
				out, err := json.Marshal(groups)
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, "{}")
			})
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given a custom layout", t, func() {
		l := categorize.Layout{
			HotLabel:     "hot",
			HotThreshold: 50,
			OtherLabel:   "rest",
			Table:        []categorize.Mapping{{Category: scoring.CategoryMoneyFears, Label: "money"}},
			Priority:     []string{"money", "hot", "rest"},
		}

		Convey("When it is valid", func() {
			c, err := categorize.New(categorize.WithLayout(l))
			So(err, ShouldBeNil)

			Convey("Then its threshold and order apply", func() {
				groups := c.Group([]model.ScoredArticle{
					scored("a", 55),
					scored("b", 49, scoring.CategoryMoneyFears),
				})
				So(groups.Labels(), ShouldResemble, []string{"money", "hot"})
			})
		})

		Convey("When a mapped label is missing from priority", func() {
			l.Priority = []string{"hot", "rest"}
			_, err := categorize.New(categorize.WithLayout(l))

			Convey("Then construction fails", func() {
				So(errors.Is(err, categorize.ErrInvalidLayout), ShouldBeTrue)
			})
		})

		Convey("When priority repeats a label", func() {
			l.Priority = []string{"money", "hot", "rest", "hot"}
			_, err := categorize.New(categorize.WithLayout(l))

			Convey("Then construction fails", func() {
				So(errors.Is(err, categorize.ErrInvalidLayout), ShouldBeTrue)
			})
		})
	})
}
