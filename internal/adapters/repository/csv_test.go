package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/ssbakh07/reelpick/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

const itemsCSV = `id,title,overview,runtime,vote_average,Animation,Comedy,Drama,rb_ratio,pop_bin
1,First,About the first,90,5.0,1,0,0,0.1,1
2,Second,About the second,120,7.5,0,1,0,0.5,2
3,Third,About the third,150,10.0,0,0,1,0.9,3
`

const usersCSV = `user_id,1,2,3
10,5,,1
20,,4,
30,2,2,2
`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	Convey("Given well-formed item and user tables", t, func() {
		itemsPath := writeFixture(t, "items.csv", itemsCSV)
		usersPath := writeFixture(t, "users.csv", usersCSV)

		cat, err := repository.LoadCSV(context.Background(), itemsPath, usersPath)
		So(err, ShouldBeNil)

		Convey("Then table sizes match the fixtures", func() {
			So(cat.ItemCount(), ShouldEqual, 3)
			So(cat.UserCount(), ShouldEqual, 3)
		})

		Convey("Then numeric columns are min-max scaled to [0,1]", func() {
			first, err := cat.ItemByID(1)
			So(err, ShouldBeNil)
			third, err := cat.ItemByID(3)
			So(err, ShouldBeNil)

			// Layout: runtime, vote, Animation, Comedy, Drama, ratio, pop.
			So(len(first.Features), ShouldEqual, 7)
			So(first.Features[0], ShouldEqual, 0) // runtime 90 is the minimum
			So(third.Features[0], ShouldEqual, 1) // runtime 150 is the maximum
			So(first.Features[1], ShouldEqual, 0) // vote 5.0 is the minimum
			So(third.Features[1], ShouldEqual, 1) // vote 10.0 is the maximum

			second, err := cat.ItemByID(2)
			So(err, ShouldBeNil)
			So(second.Features[0], ShouldAlmostEqual, 0.5)
			So(second.Features[1], ShouldAlmostEqual, 0.5)
		})

		Convey("Then genre flags pass through unscaled", func() {
			second, err := cat.ItemByID(2)
			So(err, ShouldBeNil)
			So(second.Features[2], ShouldEqual, 0) // Animation
			So(second.Features[3], ShouldEqual, 1) // Comedy
			So(second.Features[4], ShouldEqual, 0) // Drama
		})

		Convey("Then missing ratings read as zero", func() {
			u, err := cat.UserByID(20)
			So(err, ShouldBeNil)
			So(u.Ratings, ShouldResemble, []float64{0, 4, 0})
		})

		Convey("Then positions and ids map both ways", func() {
			id, err := cat.ItemIDAt(1)
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 2)

			pos, ok := cat.ItemPosOf(3)
			So(ok, ShouldBeTrue)
			So(pos, ShouldEqual, 2)

			_, ok = cat.ItemPosOf(99)
			So(ok, ShouldBeFalse)
		})

		Convey("Then display text survives the load", func() {
			it, err := cat.ItemByID(2)
			So(err, ShouldBeNil)
			So(it.Title, ShouldEqual, "Second")
			So(it.Overview, ShouldEqual, "About the second")
		})
	})
}

func TestLoadCSV_Errors(t *testing.T) {
	Convey("Given an item table missing a required column", t, func() {
		itemsPath := writeFixture(t, "items.csv", "id,title,overview,runtime,Animation,rb_ratio,pop_bin\n1,A,B,90,1,0.1,1\n")
		usersPath := writeFixture(t, "users.csv", usersCSV)

		_, err := repository.LoadCSV(context.Background(), itemsPath, usersPath)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
	})

	Convey("Given a user table referencing an unknown item", t, func() {
		itemsPath := writeFixture(t, "items.csv", itemsCSV)
		usersPath := writeFixture(t, "users.csv", "user_id,1,2,99\n10,1,2,3\n")

		_, err := repository.LoadCSV(context.Background(), itemsPath, usersPath)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
	})

	Convey("Given an empty user table", t, func() {
		itemsPath := writeFixture(t, "items.csv", itemsCSV)
		usersPath := writeFixture(t, "users.csv", "user_id,1,2,3\n")

		_, err := repository.LoadCSV(context.Background(), itemsPath, usersPath)
		So(err, ShouldNotBeNil)
		So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
	})

	Convey("Given a missing file", t, func() {
		_, err := repository.LoadCSV(context.Background(), "/nope/items.csv", "/nope/users.csv")
		So(err, ShouldNotBeNil)
		So(errors.Is(err, repository.ErrLoad), ShouldBeTrue)
	})
}
