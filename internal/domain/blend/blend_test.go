package blend_test

import (
	"testing"

	"github.com/harrytothemoon/lbet/internal/domain/blend"
	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCurrentWeekEntry(t *testing.T) {
	Convey("Given a spreadsheet snapshot with two ranked players", t, func() {
		snapshot := ranking.ComputeRankings([]model.BetRecord{
			{PlayerID: "P1", BetAmount: 600},
			{PlayerID: "P2", BetAmount: 300},
		}, 900)
		So(snapshot.TotalBetAmount, ShouldEqual, 900)

		Convey("When the live amount falls between the two", func() {
			entry := blend.CurrentWeekEntry(snapshot, "LivePlayer", 450)

			Convey("Then the rank is the insertion point", func() {
				So(entry.Rank, ShouldEqual, 2)
			})

			Convey("Then percentage and points use the snapshot denominator", func() {
				So(entry.Percentage, ShouldEqual, "50.00")
				So(entry.Points, ShouldAlmostEqual, 450, 1e-9)
			})

			Convey("Then the entry carries the masked identity", func() {
				So(entry.PlayerID, ShouldEqual, "LivePlayer")
				So(entry.MaskedPlayerID, ShouldEqual, ranking.MaskPlayerID("LivePlayer"))
				So(entry.BetAmount, ShouldEqual, 450)
			})
		})

		Convey("When the live amount exceeds every snapshot entry", func() {
			entry := blend.CurrentWeekEntry(snapshot, "whale", 700)

			So(entry.Rank, ShouldEqual, 1)
		})

		Convey("When the live amount equals a snapshot entry", func() {
			entry := blend.CurrentWeekEntry(snapshot, "even", 600)

			Convey("Then the scan stops at the equal entry", func() {
				So(entry.Rank, ShouldEqual, 1)
			})
		})

		Convey("When the live amount trails every snapshot entry", func() {
			entry := blend.CurrentWeekEntry(snapshot, "minnow", 10)

			So(entry.Rank, ShouldEqual, 3)
		})

		Convey("When the live player also appears in the snapshot", func() {
			entry := blend.CurrentWeekEntry(snapshot, "P2", 450)

			Convey("Then the denominator is still the unmodified snapshot total", func() {
				// P2's 300 stays in the 900 total alongside the live 450.
				So(entry.Percentage, ShouldEqual, "50.00")
				So(entry.Rank, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty snapshot", t, func() {
		entry := blend.CurrentWeekEntry(model.WeekRankingResult{}, "P1", 500)

		Convey("Then the player ranks first with zeroed shares", func() {
			So(entry.Rank, ShouldEqual, 1)
			So(entry.Percentage, ShouldEqual, "0.00")
			So(entry.Points, ShouldEqual, 0)
			So(entry.BetAmount, ShouldEqual, 500)
		})
	})
}
