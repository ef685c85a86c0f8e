package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestPackageRecorders(t *testing.T) {
	Convey("Given the package-level recorders", t, func() {
		Convey("When recording evaluation outcomes", func() {
			Convey("Then they should not panic", func() {
				So(func() {
					RecordEvaluation("Good", "classifier")
					RecordEvaluation("Poor", "rule_veto")
					RecordRuleVeto()
					RecordClassifierFallback()
					RecordEvaluationLatency(12)
					RecordRuleScoringLatency(1)
					RecordClassifierLatency(3)
					RecordBatch(100, 2)
					RecordEvaluationError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("predict", "POST", "200")
				RecordHTTPRequestDuration("predict", "POST", "200", 25)
				RecordErrorByComponent("classifier", "proba_unavailable")
				RecordErrorByType("client_error", "warning")
				RecordErrorByEndpoint("predict", "POST", "client_error")
				RecordErrorLatency("classifier", "predict_failed", 2)
			}, ShouldNotPanic)
		})

		Convey("When updating system gauges", func() {
			So(func() {
				UpdateModelLoaded(true)
				UpdateModelLoaded(false)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(42)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
		})

		Convey("When gathering the registry", func() {
			RecordEvaluation("Average", "rule_fallback")
			families, err := GetRegistry().Gather()

			Convey("Then evaluation counters are exposed under the engine subsystem", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["sleepq_engine_evaluations_total"], ShouldBeTrue)
				So(names["sleepq_engine_model_loaded"], ShouldBeTrue)
			})
		})
	})
}
