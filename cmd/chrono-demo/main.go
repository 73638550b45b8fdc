package main

import (
	"time"

	"github.com/sevings/chrono"
	"go.uber.org/zap"
)

func main() {
	zapLogger, err := zap.NewDevelopment(zap.WithCaller(false))
	if err != nil {
		panic(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zap.ReplaceGlobals(zapLogger)
	logger := zapLogger.Sugar()

	tm := chrono.New()
	defer tm.Stop()

	tick := func(label string) chrono.Job {
		return func() { logger.Infof("tick %s", label) }
	}

	logger.Info("starting timer, will run for 10 seconds")

	tm.ScheduleEvery(time.Second, tick("1")).Detach()
	tm.ScheduleEvery(500*time.Millisecond, tick("0.5")).Detach()
	twoSec := tm.ScheduleEvery(2*time.Second, tick("2"))

	time.Sleep(5 * time.Second)

	tm.ScheduleImmediately(func() { logger.Info("tick 2 should stop now") }).Detach()
	twoSec.Cancel()

	time.Sleep(5 * time.Second)
}
