package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := New()

		Convey("Then it should carry the documented defaults", func() {
			So(cfg.Addr, ShouldEqual, ":3000")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.TargetCategory, ShouldEqual, "movie")
			So(cfg.TargetWait(), ShouldEqual, 2*time.Second)
			So(cfg.ProviderTimeout(), ShouldEqual, 5*time.Second)
			So(cfg.RetryInitial(), ShouldEqual, 200*time.Millisecond)
			So(cfg.RetryMax(), ShouldEqual, 2*time.Second)
			So(cfg.BreakerTimeout(), ShouldEqual, 30*time.Second)
			So(cfg.RateLimitWindow(), ShouldEqual, time.Minute)
			So(cfg.MetricsEnabled, ShouldBeTrue)
			So(cfg.MetricsRefresh(), ShouldEqual, 10*time.Second)
		})

		Convey("When metrics labels and buckets are blank", func() {
			labels, err := cfg.MetricsLabelMap()
			So(err, ShouldBeNil)
			So(labels, ShouldBeEmpty)
			buckets, err := cfg.MetricsBuckets()
			So(err, ShouldBeNil)
			So(buckets, ShouldBeNil)
		})

		Convey("When a metrics label repeats", func() {
			cfg.MetricsLabels = "env=a,env=b"
			_, err := cfg.MetricsLabelMap()
			So(err, ShouldNotBeNil)
		})

		Convey("When origins are listed with spaces and blanks", func() {
			cfg.CORSAllowedOrigins = " https://a.example , ,https://b.example"

			Convey("Then AllowedOrigins should normalize them", func() {
				So(cfg.AllowedOrigins(), ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		Convey("When no origins are listed", func() {
			cfg.CORSAllowedOrigins = ""
			So(cfg.AllowedOrigins(), ShouldBeEmpty)
		})
	})
}
