package recommend_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/somnolab/sleepq/internal/domain/recommend"
	"github.com/somnolab/sleepq/internal/domain/score"
)

func allGood() score.Indicators {
	return score.Indicators{
		SleepDuration:    score.BandGood,
		DailySteps:       score.BandGood,
		PhysicalActivity: score.BandGood,
		Stress:           score.BandGood,
		ScreenTime:       score.BandGood,
	}
}

func TestGenerator_For(t *testing.T) {
	Convey("Given a generator with the default table", t, func() {
		gen := recommend.New()

		Convey("When every band is Good", func() {
			out := gen.For(allGood())

			Convey("Then one line per indicator is emitted in fixed order", func() {
				So(out, ShouldHaveLength, 5)
				So(out[0], ShouldContainSubstring, "Sleep duration")
				So(out[1], ShouldContainSubstring, "steps")
				So(out[4], ShouldContainSubstring, "Screen time")
			})
		})

		Convey("When a band is Poor", func() {
			ind := allGood()
			ind.Stress = score.BandPoor
			out := gen.For(ind)

			Convey("Then that indicator's line switches to the Poor copy", func() {
				So(out, ShouldHaveLength, 5)
				So(out[3], ShouldContainSubstring, "High stress")
			})
		})

		Convey("When bands are out of range", func() {
			ind := allGood()
			ind.DailySteps = 0
			ind.ScreenTime = 9
			out := gen.For(ind)

			Convey("Then they clamp instead of panicking", func() {
				So(out, ShouldHaveLength, 5)
				So(out[1], ShouldContainSubstring, "Low daily steps")
				So(out[4], ShouldContainSubstring, "under control")
			})
		})

		Convey("Then the output is never empty", func() {
			So(gen.For(score.Indicators{}), ShouldNotBeEmpty)
		})
	})
}

func TestGenerator_LegacyMode(t *testing.T) {
	Convey("Given a generator in legacy failure-only mode", t, func() {
		gen := recommend.New(recommend.WithLegacyMode(true))

		Convey("When every band is Good", func() {
			out := gen.For(allGood())

			Convey("Then only the maintenance message is emitted", func() {
				So(out, ShouldResemble, []string{recommend.DefaultMaintenance})
			})
		})

		Convey("When two bands need fixing", func() {
			ind := allGood()
			ind.SleepDuration = score.BandPoor
			ind.ScreenTime = score.BandAverage
			out := gen.For(ind)

			Convey("Then only those indicators get advice", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0], ShouldContainSubstring, "Sleep duration")
				So(out[1], ShouldContainSubstring, "cutoff")
			})
		})

		Convey("When the maintenance message is customized", func() {
			custom := recommend.New(
				recommend.WithLegacyMode(true),
				recommend.WithMaintenanceMessage("All clear."),
			)
			out := custom.For(allGood())
			So(out, ShouldResemble, []string{"All clear."})
		})
	})
}

func TestGenerator_CustomTable(t *testing.T) {
	Convey("Given a generator with a replacement table", t, func() {
		table := recommend.DefaultTable()
		table[recommend.Stress] = [3]string{"breathe", "pause", "steady"}
		gen := recommend.New(recommend.WithTable(table))

		Convey("When the stress band varies", func() {
			ind := allGood()
			ind.Stress = score.BandAverage
			out := gen.For(ind)

			Convey("Then the replacement copy is used", func() {
				So(out[3], ShouldEqual, "pause")
			})
		})
	})
}
