package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumehunt-engine/internal/config"
	"resumehunt-engine/internal/events"
	"resumehunt-engine/internal/httpapi"
	"resumehunt-engine/internal/runlock"
	"resumehunt-engine/internal/scheduler"
)

const runDrainTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.App.Port
		}

		lock, err := runlock.TryAcquire(cfg.App.DataDir)
		if err != nil {
			return eris.Wrap(err, "serve")
		}
		defer lock.Release() //nolint:errcheck

		userCfgPath := cfgPath
		if userCfgPath == "" {
			if userCfgPath, err = config.EnsureUserConfig(cfg.App.DataDir); err != nil {
				return err
			}
		}
		loadCfg := func() (config.Config, error) { return loadConfig(userCfgPath, true) }
		current, err := loadCfg()
		if err != nil {
			return err
		}
		var cfgVal atomic.Value // stores config.Config
		cfgVal.Store(current)

		hub := events.NewHub()
		eng, err := newEngine(current, hub)
		if err != nil {
			return err
		}
		runs := &httpapi.RunGroup{}
		defer func() {
			// Runs stop before the store and browser go away.
			stop()
			if !runs.Wait(runDrainTimeout) {
				zap.L().Warn("background runs still active at shutdown", zap.Duration("waited", runDrainTimeout))
			}
			eng.Close()
		}()

		mux := httpapi.NewMux(httpapi.Deps{
			Hub:         hub,
			CfgVal:      &cfgVal,
			UserCfgPath: userCfgPath,
			LoadCfg:     loadCfg,
			Runner:      eng.live(func() config.Config { return cfgVal.Load().(config.Config) }),
			Status:      eng.builder.Status,
			History:     eng.db,
			DB:          eng.db,
			BaseCtx:     ctx,
			Runs:        runs,
		})

		runs.Go(func() {
			scheduler.Every(ctx, housekeepingInterval, "housekeeping", housekeeping(eng.db, current.App.RetentionDays))
		})

		addr := fmt.Sprintf("127.0.0.1:%d", port)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return eris.Wrapf(err, "listen %s", addr)
		}

		srv := &http.Server{
			Handler:           httpapi.Chain(mux, httpapi.Cors, httpapi.RequestID, httpapi.Recover, httpapi.AccessLog),
			ReadHeaderTimeout: 5 * time.Second,
		}

		token, err := randomToken(16)
		if err != nil {
			return err
		}
		mux.HandleFunc("/shutdown", shutdownHandler(token, srv))

		zap.L().Info("engine listening",
			zap.String("addr", "http://"+addr),
			zap.String("data_dir", cfg.App.DataDir),
			zap.String("config", userCfgPath),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "SHUTDOWN_TOKEN=%s\n", token)

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (default app.port)")
	rootCmd.AddCommand(serveCmd)
}
