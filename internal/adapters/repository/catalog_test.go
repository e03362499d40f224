package repository_test

import (
	"errors"
	"testing"

	repository "github.com/ssbakh07/reelpick/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

func staticFixture() ([]repository.Item, []repository.User) {
	items := []repository.Item{
		{ID: 1, Title: "One", Overview: "o1", Features: []float64{0, 0}},
		{ID: 2, Title: "Two", Overview: "o2", Features: []float64{0.5, 0.5}},
		{ID: 3, Title: "Three", Overview: "o3", Features: []float64{1, 1}},
	}
	users := []repository.User{
		{ID: 10, Ratings: []float64{5, 0, 1}},
		{ID: 20, Ratings: []float64{0, 4, 0}},
	}
	return items, users
}

func TestNewStatic(t *testing.T) {
	Convey("Given consistent item and user rows", t, func() {
		items, users := staticFixture()
		cat, err := repository.NewStatic(items, users)
		So(err, ShouldBeNil)

		Convey("Then lookups work by id", func() {
			it, err := cat.ItemByID(2)
			So(err, ShouldBeNil)
			So(it.Title, ShouldEqual, "Two")

			u, err := cat.UserByID(10)
			So(err, ShouldBeNil)
			So(u.Ratings[0], ShouldEqual, 5)
		})

		Convey("Then unknown ids surface ErrNotFound", func() {
			_, err := cat.ItemByID(42)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = cat.UserByID(42)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			_, err = cat.ItemIDAt(-1)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then RandomItemID only draws known ids", func() {
			for i := 0; i < 50; i++ {
				id := cat.RandomItemID()
				_, err := cat.ItemByID(id)
				So(err, ShouldBeNil)
			}
		})

		Convey("Then the same seed draws the same sequence", func() {
			a, err := repository.NewStatic(items, users, repository.WithRandSeed(7))
			So(err, ShouldBeNil)
			b, err := repository.NewStatic(items, users, repository.WithRandSeed(7))
			So(err, ShouldBeNil)

			for i := 0; i < 20; i++ {
				So(a.RandomItemID(), ShouldEqual, b.RandomItemID())
			}
		})
	})
}

func TestNewStatic_Validation(t *testing.T) {
	Convey("Given inconsistent inputs", t, func() {
		items, users := staticFixture()

		Convey("An empty item table fails", func() {
			_, err := repository.NewStatic(nil, users)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})

		Convey("An empty user table fails", func() {
			_, err := repository.NewStatic(items, nil)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})

		Convey("A ragged feature row fails", func() {
			bad := append([]repository.Item{}, items...)
			bad[1] = repository.Item{ID: 2, Features: []float64{1}}
			_, err := repository.NewStatic(bad, users)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})

		Convey("A short rating vector fails", func() {
			badUsers := []repository.User{{ID: 10, Ratings: []float64{1}}}
			_, err := repository.NewStatic(items, badUsers)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})

		Convey("Duplicate ids fail", func() {
			dup := append([]repository.Item{}, items...)
			dup[2] = repository.Item{ID: 1, Features: []float64{1, 1}}
			_, err := repository.NewStatic(dup, users)
			So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
		})
	})
}
