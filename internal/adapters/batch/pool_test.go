package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/somnolab/sleepq/internal/adapters/batch"
	"github.com/somnolab/sleepq/internal/domain/model"
	"github.com/somnolab/sleepq/internal/domain/types"
)

func observations(n int) []model.Observation {
	rows := make([]model.Observation, n)
	for i := range rows {
		rows[i] = model.Observation{Age: i, SleepDuration: 7}
	}
	return rows
}

func TestPool_Run(t *testing.T) {
	Convey("Given a pool with a few workers", t, func() {
		pool := batch.New(batch.WithWorkers(4))

		Convey("When running a batch", func() {
			rows := observations(50)
			eval := func(ctx context.Context, o model.Observation) (types.Result, error) {
				return types.Result{Prediction: fmt.Sprintf("row-%d", o.Age)}, nil
			}
			out := pool.Run(context.Background(), rows, eval)

			Convey("Then output row i corresponds to input row i", func() {
				So(out, ShouldHaveLength, 50)
				for i, row := range out {
					So(row.Index, ShouldEqual, i)
					So(row.Err, ShouldBeNil)
					So(row.Result.Prediction, ShouldEqual, fmt.Sprintf("row-%d", i))
				}
			})
		})

		Convey("When some rows fail", func() {
			rows := observations(10)
			rowErr := errors.New("bad row")
			eval := func(ctx context.Context, o model.Observation) (types.Result, error) {
				if o.Age%3 == 0 {
					return types.Result{}, rowErr
				}
				return types.Result{Prediction: "ok"}, nil
			}
			out := pool.Run(context.Background(), rows, eval)

			Convey("Then failures stay on their own rows", func() {
				for i, row := range out {
					if i%3 == 0 {
						So(row.Err, ShouldEqual, rowErr)
					} else {
						So(row.Err, ShouldBeNil)
						So(row.Result.Prediction, ShouldEqual, "ok")
					}
				}
			})
		})

		Convey("When the batch is empty", func() {
			out := pool.Run(context.Background(), nil, func(ctx context.Context, o model.Observation) (types.Result, error) {
				return types.Result{}, nil
			})
			So(out, ShouldBeEmpty)
		})

		Convey("When the context is cancelled mid-batch", func() {
			ctx, cancel := context.WithCancel(context.Background())
			rows := observations(100)
			var evaluated atomic.Int64
			eval := func(ctx context.Context, o model.Observation) (types.Result, error) {
				if evaluated.Add(1) == 10 {
					cancel()
				}
				time.Sleep(time.Millisecond)
				return types.Result{Prediction: "ok"}, nil
			}
			out := pool.Run(ctx, rows, eval)

			Convey("Then every row is accounted for", func() {
				So(out, ShouldHaveLength, 100)
				var done, skipped int
				for i, row := range out {
					So(row.Index, ShouldEqual, i)
					if row.Err != nil {
						So(row.Err, ShouldEqual, context.Canceled)
						skipped++
					} else {
						done++
					}
				}
				So(skipped, ShouldBeGreaterThan, 0)
				So(done+skipped, ShouldEqual, 100)
			})
		})
	})
}

func TestPool_Concurrency(t *testing.T) {
	Convey("Given a pool bounded to two workers", t, func() {
		pool := batch.New(batch.WithWorkers(2))

		Convey("When rows are evaluated", func() {
			var inFlight, peak atomic.Int64
			eval := func(ctx context.Context, o model.Observation) (types.Result, error) {
				cur := inFlight.Add(1)
				for {
					p := peak.Load()
					if cur <= p || peak.CompareAndSwap(p, cur) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				inFlight.Add(-1)
				return types.Result{}, nil
			}
			out := pool.Run(context.Background(), observations(20), eval)

			Convey("Then concurrency never exceeds the bound", func() {
				So(out, ShouldHaveLength, 20)
				So(peak.Load(), ShouldBeLessThanOrEqualTo, 2)
			})
		})
	})
}

func TestPool_Options(t *testing.T) {
	Convey("Given pool construction", t, func() {
		Convey("When no worker count is set", func() {
			So(batch.New().Workers(), ShouldBeGreaterThan, 0)
		})

		Convey("When a non-positive count is given", func() {
			defaulted := batch.New().Workers()
			So(batch.New(batch.WithWorkers(0)).Workers(), ShouldEqual, defaulted)
			So(batch.New(batch.WithWorkers(-3)).Workers(), ShouldEqual, defaulted)
		})

		Convey("When an explicit count is given", func() {
			So(batch.New(batch.WithWorkers(7)).Workers(), ShouldEqual, 7)
		})
	})
}
