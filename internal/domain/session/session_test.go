package session_test

import (
	"testing"

	"github.com/ssbakh07/reelpick/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecordRating(t *testing.T) {
	Convey("Given empty state over a five-item catalog", t, func() {
		st := session.NewState(5)
		So(st.SeenCount(), ShouldEqual, 0)
		So(st.Picks(), ShouldEqual, 0)
		So(st.HasAnyLiked(), ShouldBeFalse)

		Convey("When an item is rated above the liked threshold", func() {
			st.RecordRating(101, 2, 4, []float64{1, 0, 1})

			Convey("Then it is seen, stored at its position and liked", func() {
				So(st.Seen(101), ShouldBeTrue)
				So(st.SeenCount(), ShouldEqual, 1)
				So(st.Picks(), ShouldEqual, 1)
				So(st.Preferences()[2], ShouldEqual, 4)
				So(st.HasAnyLiked(), ShouldBeTrue)
			})
		})

		Convey("When an item is rated exactly at the threshold", func() {
			st.RecordRating(101, 2, 2.5, []float64{1, 0, 1})

			Convey("Then it is seen but not liked", func() {
				So(st.Seen(101), ShouldBeTrue)
				So(st.HasAnyLiked(), ShouldBeFalse)
			})
		})

		Convey("When an item is rated just above the threshold", func() {
			st.RecordRating(101, 2, 2.6, []float64{1, 0, 1})
			So(st.HasAnyLiked(), ShouldBeTrue)
		})

		Convey("When the same item is rated twice", func() {
			st.RecordRating(101, 2, 1, nil)
			st.RecordRating(101, 2, 5, []float64{1, 0, 1})

			Convey("Then the seen set holds it once and prefs keep the last rating", func() {
				So(st.SeenCount(), ShouldEqual, 1)
				So(st.Picks(), ShouldEqual, 2)
				So(st.Preferences()[2], ShouldEqual, 5)
				So(st.SeenIDs(), ShouldResemble, []int{101})
			})
		})
	})
}

func TestAverageLikedFeatures(t *testing.T) {
	Convey("Given state with no liked items", t, func() {
		st := session.NewState(3)
		st.RecordRating(1, 0, 2, []float64{1, 1})

		Convey("Then there is no average to take", func() {
			_, ok := st.AverageLikedFeatures()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given two liked items", t, func() {
		st := session.NewState(3)
		st.RecordRating(1, 0, 5, []float64{1, 0})
		st.RecordRating(2, 1, 4, []float64{0, 1})

		Convey("Then the average is the elementwise mean", func() {
			avg, ok := st.AverageLikedFeatures()
			So(ok, ShouldBeTrue)
			So(avg, ShouldResemble, []float64{0.5, 0.5})
		})
	})

	Convey("Mutating a passed feature row does not leak into the profile", t, func() {
		st := session.NewState(3)
		row := []float64{1, 0}
		st.RecordRating(1, 0, 5, row)
		row[0] = 99

		avg, ok := st.AverageLikedFeatures()
		So(ok, ShouldBeTrue)
		So(avg[0], ShouldEqual, 1)
	})
}
