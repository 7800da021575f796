package ranking_test

import (
	"testing"

	"github.com/harrytothemoon/lbet/internal/domain/model"
	"github.com/harrytothemoon/lbet/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComputeRankings(t *testing.T) {
	Convey("Given a week of bet records", t, func() {
		records := []model.BetRecord{
			{PlayerID: "P2", BetAmount: 300},
			{PlayerID: "P1", BetAmount: 600},
			{PlayerID: "P3", BetAmount: 100},
		}

		Convey("When computing rankings with a pool of 1000", func() {
			result := ranking.ComputeRankings(records, 1000)

			Convey("Then the total and player count are summed correctly", func() {
				So(result.TotalBetAmount, ShouldEqual, 1000)
				So(result.TotalPlayers, ShouldEqual, 3)
				So(result.WeeklyPointsPool, ShouldEqual, 1000)
			})

			Convey("Then entries are ordered by bet amount descending", func() {
				So(result.Rankings[0].PlayerID, ShouldEqual, "P1")
				So(result.Rankings[1].PlayerID, ShouldEqual, "P2")
				So(result.Rankings[2].PlayerID, ShouldEqual, "P3")
			})

			Convey("Then ranks are dense from 1 to N", func() {
				for i, entry := range result.Rankings {
					So(entry.Rank, ShouldEqual, i+1)
				}
			})

			Convey("Then percentages and points follow the bet share", func() {
				So(result.Rankings[0].Percentage, ShouldEqual, "60.00")
				So(result.Rankings[0].Points, ShouldEqual, 600)
				So(result.Rankings[1].Percentage, ShouldEqual, "30.00")
				So(result.Rankings[1].Points, ShouldEqual, 300)
				So(result.Rankings[2].Percentage, ShouldEqual, "10.00")
				So(result.Rankings[2].Points, ShouldEqual, 100)
			})

			Convey("Then points sum back to the weekly pool", func() {
				var sum float64
				for _, entry := range result.Rankings {
					sum += entry.Points
				}
				So(sum, ShouldAlmostEqual, 1000, 1e-9)
			})

			Convey("Then the input slice is left untouched", func() {
				So(records[0].PlayerID, ShouldEqual, "P2")
			})
		})

		Convey("When two players tie on bet amount", func() {
			tied := []model.BetRecord{
				{PlayerID: "first", BetAmount: 500},
				{PlayerID: "second", BetAmount: 500},
				{PlayerID: "third", BetAmount: 900},
			}
			result := ranking.ComputeRankings(tied, 1000)

			Convey("Then ties keep their original input order", func() {
				So(result.Rankings[0].PlayerID, ShouldEqual, "third")
				So(result.Rankings[1].PlayerID, ShouldEqual, "first")
				So(result.Rankings[2].PlayerID, ShouldEqual, "second")
			})

			Convey("Then ranks stay dense despite the tie", func() {
				So(result.Rankings[1].Rank, ShouldEqual, 2)
				So(result.Rankings[2].Rank, ShouldEqual, 3)
			})
		})
	})

	Convey("Given no records or all-zero bets", t, func() {
		Convey("When computing rankings over an empty slice", func() {
			result := ranking.ComputeRankings(nil, 1000)

			Convey("Then the result is empty but well-formed", func() {
				So(result.TotalBetAmount, ShouldEqual, 0)
				So(result.TotalPlayers, ShouldEqual, 0)
				So(result.Rankings, ShouldBeEmpty)
			})
		})

		Convey("When every bet amount is zero", func() {
			result := ranking.ComputeRankings([]model.BetRecord{
				{PlayerID: "A", BetAmount: 0},
				{PlayerID: "B", BetAmount: 0},
			}, 1000)

			Convey("Then percentages and points are all zero, with no division error", func() {
				So(result.TotalBetAmount, ShouldEqual, 0)
				for _, entry := range result.Rankings {
					So(entry.Percentage, ShouldEqual, "0.00")
					So(entry.Points, ShouldEqual, 0)
				}
			})
		})
	})
}

func TestFindPlayerRank(t *testing.T) {
	Convey("Given a computed ranking", t, func() {
		result := ranking.ComputeRankings([]model.BetRecord{
			{PlayerID: "Alpha", BetAmount: 600},
			{PlayerID: "Bravo", BetAmount: 300},
		}, 1000)

		Convey("When searching with different case and padding", func() {
			entry := ranking.FindPlayerRank(result.Rankings, "  ALPHA ")

			Convey("Then the exact record is found", func() {
				So(entry, ShouldNotBeNil)
				So(entry.PlayerID, ShouldEqual, "Alpha")
				So(entry.Rank, ShouldEqual, 1)
			})
		})

		Convey("When searching a partial ID", func() {
			Convey("Then no fuzzy match is attempted", func() {
				So(ranking.FindPlayerRank(result.Rankings, "Alph"), ShouldBeNil)
			})
		})

		Convey("When searching an unknown ID", func() {
			So(ranking.FindPlayerRank(result.Rankings, "Charlie"), ShouldBeNil)
		})
	})
}

func TestMaskPlayerID(t *testing.T) {
	Convey("Given player IDs of various lengths", t, func() {
		Convey("Then short IDs are returned unmasked", func() {
			So(ranking.MaskPlayerID(""), ShouldEqual, "")
			So(ranking.MaskPlayerID("AB"), ShouldEqual, "AB")
			So(ranking.MaskPlayerID("ABC"), ShouldEqual, "ABC")
		})

		Convey("Then longer IDs keep the first two and last characters", func() {
			So(ranking.MaskPlayerID("ABCD"), ShouldEqual, "AB*D")
			So(ranking.MaskPlayerID("ABCDE"), ShouldEqual, "AB**E")
			So(ranking.MaskPlayerID("player_one"), ShouldEqual, "pl*******e")
		})
	})
}
