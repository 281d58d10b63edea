package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
)

const (
	RestApp = "rest"
)

// App is a long running part of the service. Start blocks until the app is stopped.
type App interface {
	Start()
	Stop()
}

type AppsManager struct {
	apps map[string]App

	// order is the registration order, apps are stopped in reverse
	order []string
	wg    *sync.WaitGroup

	logger *zap.Logger
}

func NewAppsManager(logger *zap.Logger) *AppsManager {
	return &AppsManager{
		apps:   make(map[string]App),
		wg:     &sync.WaitGroup{},
		logger: logger,
	}
}

func (am *AppsManager) Register(name string, app App) {
	if _, ok := am.apps[name]; !ok {
		am.order = append(am.order, name)
	}
	am.apps[name] = app
}

func (am *AppsManager) RunAll() {
	for _, name := range am.order {
		app := am.apps[name]
		am.wg.Add(1)
		go func(name string, app App) {
			defer am.wg.Done()
			am.logger.Info("App started", zap.String("name", name))
			app.Start()
			am.logger.Info("App exited", zap.String("name", name))
		}(name, app)
	}
}

func (am *AppsManager) StopAll() {
	for i := len(am.order) - 1; i >= 0; i-- {
		name := am.order[i]
		am.apps[name].Stop()
		am.logger.Info("App stopped", zap.String("name", name))
	}
}

// WaitForShutdown blocks until SIGINT, SIGTERM or ctx is done, then stops every
// app and waits for them to exit.
func (am *AppsManager) WaitForShutdown(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	am.logger.Info("Shutting down")
	am.StopAll()
	am.wg.Wait()
}
