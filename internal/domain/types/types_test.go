package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/newsheat/internal/domain/model"
	"github.com/okian/newsheat/internal/domain/scoring"
	types "github.com/okian/newsheat/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRank(t *testing.T) {
	Convey("Given scored articles already in score order", t, func() {
		items := []model.ScoredArticle{
			{Article: model.Article{ID: "a", Title: "first", URL: "https://x.test/a"}, RelevanceScore: 90,
				Categories: scoring.NewCategorySet(scoring.CategoryOutrage)},
			{Article: model.Article{ID: "b", Title: "second"}, RelevanceScore: 40},
		}

		Convey("When ranked", func() {
			entries := types.Rank(items)

			Convey("Then ranks are sequential from one", func() {
				So(entries, ShouldHaveLength, 2)
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
				}
				So(entries[0].ID, ShouldEqual, "a")
				So(entries[0].Score, ShouldEqual, 90)
			})

			Convey("And missing categories encode as an empty array", func() {
				out, err := json.Marshal(entries[1])
				So(err, ShouldBeNil)
				So(string(out), ShouldEqual, `{"rank":2,"id":"b","title":"second","score":40,"categories":[]}`)
			})
		})
	})

	Convey("Given no articles", t, func() {
		Convey("Then the ranking is empty, not nil", func() {
			entries := types.Rank(nil)
			So(entries, ShouldNotBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}
