package main

import (
	"math/rand"
	"slices"
	"time"

	"github.com/sevings/chrono"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}

	var zapLogger *zap.Logger
	if cfg.Release {
		zapLogger, err = zap.NewProduction(zap.WithCaller(false))
	} else {
		zapLogger, err = zap.NewDevelopment(zap.WithCaller(false))
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zap.ReplaceGlobals(zapLogger)
	zap.RedirectStdLog(zapLogger)
	logger := zapLogger.Sugar()

	tm := chrono.New()
	defer tm.Stop()

	logger.Infof("scheduling %d jobs, max delay %d ms", cfg.Jobs, cfg.MaxDelay)

	// Every job owns one slot, so no locking is needed around the results.
	lags := make([]time.Duration, cfg.Jobs)
	var done int64
	doneCh := make(chan struct{})

	begin := time.Now()
	for i := 0; i < cfg.Jobs; i++ {
		var delay time.Duration
		if cfg.MaxDelay > 0 {
			delay = time.Duration(rand.Intn(cfg.MaxDelay)) * time.Millisecond
		}
		deadline := time.Now().Add(delay)
		slot := &lags[i]
		total := int64(cfg.Jobs)
		tm.ScheduleIn(delay, func() {
			*slot = time.Since(deadline)
			done++ // jobs run serially on the worker, no race here
			if done == total {
				close(doneCh)
			}
		}).Detach()
	}
	scheduled := time.Since(begin)

	<-doneCh
	elapsed := time.Since(begin)

	slices.Sort(lags)
	run := &Run{
		Jobs:       cfg.Jobs,
		Elapsed:    elapsed,
		JobsPerSec: float64(cfg.Jobs) / elapsed.Seconds(),
		P50Lag:     lags[cfg.Jobs/2],
		P99Lag:     lags[cfg.Jobs*99/100],
		MaxLag:     lags[cfg.Jobs-1],
	}

	logger.Infof("scheduled in %v, finished in %v (%.0f jobs/s)",
		scheduled, run.Elapsed, run.JobsPerSec)
	logger.Infof("lag p50 %v, p99 %v, max %v", run.P50Lag, run.P99Lag, run.MaxLag)

	if cfg.DBPath != "" {
		db, ok := LoadDatabase(cfg.DBPath)
		if !ok {
			logger.Panic("can't load database")
		}
		if db.SaveRun(run) {
			logger.Infof("run recorded to %s", cfg.DBPath)
		}
	}
}
