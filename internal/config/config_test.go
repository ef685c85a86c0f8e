package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/somnolab/sleepq/internal/config"
	"github.com/somnolab/sleepq/internal/domain/score"
)

func TestConfigConversions(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()

		convey.Convey("When converting bands to the domain table", func() {
			bands := cfg.Bands.ToBands()

			convey.Convey("Then it matches the engine defaults", func() {
				convey.So(bands, convey.ShouldResemble, score.DefaultBands())
			})
		})

		convey.Convey("When converting defaults to the domain policy", func() {
			d := cfg.Defaults.ToDefaults()

			convey.Convey("Then the BMI category default carries through", func() {
				convey.So(d.BMICategory, convey.ShouldEqual, "Normal")
				convey.So(d.DailySteps, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("Then the stress scale is deliberately unset", func() {
			convey.So(cfg.StressScale, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given an overridden bands config", t, func() {
		b := config.DefaultBandsConfig()
		b.SleepGoodMin = 6.5
		b.ScreenPoor = 240

		convey.Convey("When converting", func() {
			bands := b.ToBands()

			convey.Convey("Then overrides carry through field by field", func() {
				convey.So(bands.SleepGoodMin, convey.ShouldEqual, 6.5)
				convey.So(bands.ScreenPoor, convey.ShouldEqual, 240)
				convey.So(bands.StepsAverage, convey.ShouldEqual, 3000)
			})
		})
	})
}
