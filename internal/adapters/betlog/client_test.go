package betlog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayerValidBetSummary(t *testing.T) {
	Convey("Given a summary-mode deployment", t, func() {
		ctx := context.Background()

		Convey("When the envelope nests the item map under data", func() {
			var gotQuery string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Path + "?" + r.URL.RawQuery
				fmt.Fprint(w, `{
					"success": true,
					"data": {
						"account": "player1",
						"item": {
							"2025-11-13": {"total_valid_amount": 100.5},
							"2025-11-14": {"total_valid_amount": 199.5}
						}
					}
				}`)
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			summary, err := client.PlayerValidBet(ctx, "player1", "2025-11-13 00:00:00", "2025-11-14 23:59:59")

			Convey("Then the day buckets are summed", func() {
				So(err, ShouldBeNil)
				So(summary.Success, ShouldBeTrue)
				So(summary.TotalValidBet, ShouldAlmostEqual, 300, 1e-9)
				So(summary.Account, ShouldEqual, "player1")
			})

			Convey("Then the query carries account and range", func() {
				So(gotQuery, ShouldContainSubstring, "/partner-api/bet_log_summary?")
				So(gotQuery, ShouldContainSubstring, "account=player1")
				So(gotQuery, ShouldContainSubstring, "start_time=2025-11-13+00%3A00%3A00")
			})
		})

		Convey("When data is a bare date map", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"success": true,
					"data": {"2025-11-13": {"total_valid_amount": 42}}
				}`)
			}))
			defer srv.Close()

			summary, err := NewClient(srv.URL).PlayerValidBet(ctx, "player1", "a", "b")

			So(err, ShouldBeNil)
			So(summary.Success, ShouldBeTrue)
			So(summary.TotalValidBet, ShouldEqual, 42)
			So(summary.Account, ShouldEqual, "player1")
		})

		Convey("When the legacy flat shape is served", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{
					"account": "legacy",
					"item": {"2025-11-13": {"total_valid_amount": 7}}
				}`)
			}))
			defer srv.Close()

			summary, err := NewClient(srv.URL).PlayerValidBet(ctx, "legacy", "a", "b")

			So(err, ShouldBeNil)
			So(summary.Success, ShouldBeTrue)
			So(summary.TotalValidBet, ShouldEqual, 7)
			So(summary.Account, ShouldEqual, "legacy")
		})

		Convey("When the upstream has no data for the player", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"success": false}`)
			}))
			defer srv.Close()

			summary, err := NewClient(srv.URL).PlayerValidBet(ctx, "ghost", "a", "b")

			Convey("Then the result is unsuccessful but not an error", func() {
				So(err, ShouldBeNil)
				So(summary.Success, ShouldBeFalse)
				So(summary.TotalValidBet, ShouldEqual, 0)
			})
		})

		Convey("When the upstream answers with a server error", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).PlayerValidBet(ctx, "player1", "a", "b")

			So(err, ShouldWrap, ErrFetch)
		})
	})
}

func TestPlayerValidBetDetail(t *testing.T) {
	Convey("Given a detail-mode deployment with three pages", t, func() {
		ctx := context.Background()

		var requests int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)

			var req detailRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			rows := map[int]string{
				1: `[{"validBetAmount": 100}, {"validBetAmount": "50.5"}]`,
				2: `[{"validBetAmount": 200}]`,
				3: `[{"validBetAmount": "not a number"}, {"validBetAmount": 9}]`,
			}
			fmt.Fprintf(w, `{
				"success": true,
				"value": {
					"dataList": %s,
					"pagination": {"totalPage": 3}
				}
			}`, rows[req.PageNum])
		}))
		defer srv.Close()

		client := NewClient(srv.URL, WithMode(ModeDetail), WithPageSize(2))

		Convey("When fetching the player's valid bet", func() {
			summary, err := client.PlayerValidBet(ctx, "player1", "a", "b")

			Convey("Then every page's rows are summed", func() {
				So(err, ShouldBeNil)
				So(summary.Success, ShouldBeTrue)
				// 100 + 50.5 + 200 + 0 + 9; the unparseable amount counts as zero.
				So(summary.TotalValidBet, ShouldAlmostEqual, 359.5, 1e-9)
				So(atomic.LoadInt32(&requests), ShouldEqual, 3)
			})
		})
	})

	Convey("Given a detail-mode deployment with no rows", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"success": false}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, WithMode(ModeDetail))
		summary, err := client.PlayerValidBet(context.Background(), "ghost", "a", "b")

		Convey("Then the result is unsuccessful but not an error", func() {
			So(err, ShouldBeNil)
			So(summary.Success, ShouldBeFalse)
		})
	})

	Convey("Given a deployment where a follow-up page fails", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req detailRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.PageNum == 2 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{
				"success": true,
				"value": {
					"dataList": [{"validBetAmount": 100}],
					"pagination": {"totalPage": 2}
				}
			}`)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, WithMode(ModeDetail))
		summary, err := client.PlayerValidBet(context.Background(), "player1", "a", "b")

		Convey("Then the total degrades instead of failing", func() {
			So(err, ShouldBeNil)
			So(summary.Success, ShouldBeTrue)
			So(summary.TotalValidBet, ShouldEqual, 100)
		})
	})
}

func TestFlexFloat(t *testing.T) {
	Convey("Given amounts in mixed encodings", t, func() {
		var row detailRow

		So(json.Unmarshal([]byte(`{"validBetAmount": 12.5}`), &row), ShouldBeNil)
		So(float64(row.ValidBetAmount), ShouldEqual, 12.5)

		So(json.Unmarshal([]byte(`{"validBetAmount": "99"}`), &row), ShouldBeNil)
		So(float64(row.ValidBetAmount), ShouldEqual, 99)

		So(json.Unmarshal([]byte(`{"validBetAmount": "oops"}`), &row), ShouldBeNil)
		So(float64(row.ValidBetAmount), ShouldEqual, 0)

		So(json.Unmarshal([]byte(`{"validBetAmount": true}`), &row), ShouldNotBeNil)
	})
}
