package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the defaults should apply", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "cinedle")
				So(manager.subsystem, ShouldEqual, "game")
				So(manager.enabled, ShouldBeTrue)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("test_"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithMetricsEnabled(false),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.comparisons.Inc()

			Convey("Then the collectors should use them", func() {
				So(manager.enabled, ShouldBeFalse)
				So(manager.refreshInterval, ShouldEqual, 3*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_test_comparisons_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then they should be ignored", func() {
				So(manager.namespace, ShouldEqual, "cinedle")
				So(manager.subsystem, ShouldEqual, "game")
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestGameMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a comparison is recorded", func() {
			before := testutil.ToFloat64(globalManager.comparisons)
			RecordComparison()
			RecordSignal("year", "exact")
			RecordSignal("year", "exact")

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.comparisons), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.comparisonSignals.WithLabelValues("year", "exact")), ShouldBeGreaterThanOrEqualTo, 2)
			})
		})

		Convey("When target readiness changes", func() {
			SetTargetReady(false)
			So(testutil.ToFloat64(globalManager.targetReady), ShouldEqual, 0)
			SetTargetReady(true)
			So(testutil.ToFloat64(globalManager.targetReady), ShouldEqual, 1)
		})

		Convey("When guesses miss and compares wait", func() {
			So(func() {
				RecordGuessNotFound()
				RecordTargetWait("ready")
				RecordTargetWait("timeout")
			}, ShouldNotPanic)
		})
	})
}

func TestProviderMetrics(t *testing.T) {
	Convey("Given provider metrics", t, func() {
		Convey("When requests, retries and breaker changes are recorded", func() {
			RecordProviderRequest("search", "ok", 12.5)
			RecordProviderRetry("search")
			SetCircuitBreakerState("tmdb", 2)
			RecordCircuitBreakerTransition("tmdb", "closed", "open")

			Convey("Then they should be visible in the registry", func() {
				So(testutil.ToFloat64(globalManager.providerRequests.WithLabelValues("search", "ok")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.providerRetries.WithLabelValues("search")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.breakerState.WithLabelValues("tmdb")), ShouldEqual, 2)
			})
		})
	})
}

func TestHTTPAndErrorMetrics(t *testing.T) {
	Convey("Given HTTP and error metrics", t, func() {
		So(func() {
			RecordHTTPRequest("/api/compare", "GET", "200")
			RecordHTTPRequestDuration("/api/compare", "GET", "200", 3.2)
			RecordErrorByComponent("api", "not_found")
			RecordErrorByType("not_found", "warning")
			RecordErrorByEndpoint("/api/compare", "GET", "not_found")
			RecordErrorLatency("api", "not_found", 1.1)
		}, ShouldNotPanic)

		So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/api/compare", "GET", "200")), ShouldBeGreaterThanOrEqualTo, 1)
	})
}

func TestSystemMetricsAndRegistry(t *testing.T) {
	Convey("Given system metrics", t, func() {
		UpdateSystemMemoryUsage(1024)
		UpdateSystemGoroutineCount(12)
		RecordSystemGCPauseTime(0.2)

		Convey("Then gauges should hold the last value", func() {
			So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 1024)
			So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
		})

		Convey("Then the custom registry should expose cinedle metrics only", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "cinedle_"), ShouldBeTrue)
			}
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given a reconfigured global manager", t, func() {
		previous := GetRegistry()
		buckets := []float64{1, 5}
		labels := map[string]string{"env": "ci"}
		Configure(
			WithNamespace(" quiz "),
			WithMetricsEnabled(false),
			WithHistogramBuckets(buckets),
			WithCustomLabels(labels),
		)
		defer Configure()
		buckets[0] = 99
		labels["env"] = "mutated"

		Convey("Then it should own a fresh registry", func() {
			So(GetRegistry(), ShouldNotEqual, previous)
			So(globalManager.namespace, ShouldEqual, "quiz")
			So(globalManager.histogramBuckets, ShouldResemble, []float64{1, 5})
			So(globalManager.customLabels, ShouldResemble, map[string]string{"env": "ci"})
		})

		Convey("Then disabled counters should stay at zero while gauges still move", func() {
			RecordComparison()
			SetTargetReady(true)
			So(testutil.ToFloat64(globalManager.comparisons), ShouldEqual, 0)
			So(testutil.ToFloat64(globalManager.targetReady), ShouldEqual, 1)
		})
	})
}

func TestSameBuckets(t *testing.T) {
	Convey("Given bucket slices", t, func() {
		So(sameBuckets([]float64{1, 2}, []float64{1, 2}), ShouldBeTrue)
		So(sameBuckets([]float64{1, 2}, []float64{1, 3}), ShouldBeFalse)
		So(sameBuckets([]float64{1}, []float64{1, 2}), ShouldBeFalse)
	})
}
