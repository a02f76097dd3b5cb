package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/justsurfingit/jobchat/internal/chat"
	"github.com/justsurfingit/jobchat/internal/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func serve(cmd *cobra.Command) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := newDeps(ctx, cfg, logger)
	if err != nil {
		logger.Error("initializing services", zap.Error(err))
		return err
	}
	defer cleanup()

	opts := cfg.ChatOptions()
	opts.Logger = logger.Named("chat")
	manager := chat.NewManager(deps, opts, cfg.Chat.SessionTTL)

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	routerOpts := handlers.RouterOptions{AllowOrigins: cfg.Server.AllowOrigins}
	if cfg.Server.RateLimit > 0 {
		routerOpts.Limiter = handlers.NewClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	router := handlers.NewRouter(handlers.NewChatHandler(manager, logger), routerOpts, logger.Named("http"))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		manager.RunEviction(gctx, cfg.Chat.EvictInterval)
		return nil
	})
	if routerOpts.Limiter != nil {
		g.Go(func() error {
			routerOpts.Limiter.RunPruning(gctx, cfg.Chat.EvictInterval)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
