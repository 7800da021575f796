package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := New()

		Convey("Then service defaults are set", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.APIMode, ShouldEqual, "summary")
			So(cfg.DailyUpdateTime, ShouldEqual, "09:00")
			So(cfg.LiveCacheTTLMinutes, ShouldEqual, 5)
			So(cfg.CachePrefix, ShouldEqual, "lbet")
			So(cfg.CacheRetention, ShouldEqual, 20)
			So(cfg.CumulativeRanks, ShouldBeTrue)
		})

		Convey("Then seven consecutive weeks are configured", func() {
			So(cfg.Weeks(), ShouldResemble, []int{1, 2, 3, 4, 5, 6, 7})

			for _, week := range cfg.Weeks() {
				p, ok := cfg.Period(week)
				So(ok, ShouldBeTrue)
				So(p.PointsPool, ShouldEqual, 2_000_000)

				start, end, err := p.Bounds()
				So(err, ShouldBeNil)
				So(end.Sub(start), ShouldEqual, 7*24*time.Hour-time.Second)
			}
		})
	})
}

func TestCurrentWeek(t *testing.T) {
	Convey("Given the default week periods", t, func() {
		cfg := New()

		Convey("When now falls inside a period", func() {
			inWeek2 := time.Date(2025, 11, 22, 12, 0, 0, 0, time.Local)
			So(cfg.CurrentWeek(inWeek2), ShouldEqual, 2)
		})

		Convey("When now falls exactly on a period start", func() {
			startWeek3 := time.Date(2025, 11, 27, 0, 0, 0, 0, time.Local)
			So(cfg.CurrentWeek(startWeek3), ShouldEqual, 3)
		})

		Convey("When now is outside every period", func() {
			afterAll := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
			So(cfg.CurrentWeek(afterAll), ShouldEqual, 1)
		})
	})
}

func TestDailyBoundary(t *testing.T) {
	Convey("Given update time strings", t, func() {
		cfg := New()

		Convey("Then HH:MM parses into hour and minute", func() {
			cfg.DailyUpdateTime = "09:30"
			h, m, err := cfg.DailyBoundary()
			So(err, ShouldBeNil)
			So(h, ShouldEqual, 9)
			So(m, ShouldEqual, 30)
		})

		Convey("Then malformed values are rejected", func() {
			for _, bad := range []string{"", "9", "25:00", "09:75", "a:b"} {
				cfg.DailyUpdateTime = bad
				_, _, err := cfg.DailyBoundary()
				So(err, ShouldWrap, ErrInvalidConfig)
			}
		})
	})
}

// Load scenarios live in separate test functions because t.Setenv
// cleanups run at test end, which would leak env vars across branches.

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LBET_SHEET_ID", "sheet-from-env")
	t.Setenv("LBET_ADDR", ":7070")

	Convey("When required values come from env", t, func() {
		cfg, err := Load(context.Background())

		Convey("Then env overlays the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.SheetID, ShouldEqual, "sheet-from-env")
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.APIMode, ShouldEqual, "summary")
		})
	})
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(
		"sheet_id: sheet-from-file\naddr: \":6060\"\napi_mode: detail\n",
	), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LBET_CONFIG", path)
	t.Setenv("LBET_ADDR", ":7070")

	Convey("When a YAML file and env both set values", t, func() {
		cfg, err := Load(context.Background())

		Convey("Then env wins over file, file over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.SheetID, ShouldEqual, "sheet-from-file")
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.APIMode, ShouldEqual, "detail")
		})
	})
}

func TestLoadMissingSheetID(t *testing.T) {
	t.Setenv("LBET_SHEET_ID", "")

	Convey("When the sheet id is empty", t, func() {
		_, err := Load(context.Background())
		So(err, ShouldWrap, ErrInvalidConfig)
	})
}

func TestLoadUnknownAPIMode(t *testing.T) {
	t.Setenv("LBET_SHEET_ID", "s")
	t.Setenv("LBET_API_MODE", "firehose")

	Convey("When the api mode is unknown", t, func() {
		_, err := Load(context.Background())
		So(err, ShouldWrap, ErrInvalidConfig)
	})
}

func TestLoadMalformedUpdateTime(t *testing.T) {
	t.Setenv("LBET_SHEET_ID", "s")
	t.Setenv("LBET_DAILY_UPDATE_TIME", "midnightish")

	Convey("When the update time is malformed", t, func() {
		_, err := Load(context.Background())
		So(err, ShouldWrap, ErrInvalidConfig)
	})
}
