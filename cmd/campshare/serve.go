package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	httptransport "github.com/example/campshare/internal/http"
	"github.com/example/campshare/internal/notify"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var (
		port     int
		smsRelay bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == 0 {
				port = rt.cfg.HTTPPort
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
			if err != nil {
				return fmt.Errorf("failed to listen on port %d: %w", port, err)
			}
			return serve(ctx, rt, listener, smsRelay)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (defaults to CAMPSHARE_HTTP_PORT)")
	cmd.Flags().BoolVar(&smsRelay, "sms-relay", false, "expose POST /api/send-sms backed by the Twilio credentials")
	return cmd
}

// serve runs the API on listener until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, rt *runtime, listener net.Listener, smsRelay bool) error {
	logger := rt.logger
	sender := newSender(rt.cfg, logger)

	container, closeStore, err := openContainer(ctx, rt, sender)
	if err != nil {
		_ = listener.Close()
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Error("failed to close store", "error", cerr)
		}
	}()

	routerCfg := httptransport.RouterConfig{
		Authorizer:  container,
		Auth:        httptransport.NewAuthHandler(container, logger),
		Events:      httptransport.NewEventHandler(container, logger),
		Maintenance: httptransport.NewMaintenanceHandler(container, logger),
		Cleaning:    httptransport.NewCleaningHandler(container, logger),
		Users:       httptransport.NewUserHandler(container, logger),
		Invitations: httptransport.NewInvitationHandler(container, logger),
		Logger:      logger,
		Middleware:  []mux.MiddlewareFunc{httptransport.RequestLogger(logger)},
	}
	if smsRelay {
		twilioCfg := twilioConfig(rt.cfg)
		if !twilioCfg.Configured() {
			_ = listener.Close()
			return errors.New("--sms-relay requires Twilio credentials")
		}
		relaySender := notify.NewThrottledSender(notify.NewTwilioSender(twilioCfg, logger), rt.cfg.SMSRatePerMinute, smsBurst)
		routerCfg.SMSRelay = httptransport.NewSMSRelayHandler(relaySender, logger)
	}

	server := &http.Server{
		Handler:           httptransport.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("campshare API listening", "addr", listener.Addr().String(), "store", rt.cfg.Store, "sms_relay", smsRelay)
	if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server encountered error: %w", err)
	}
	<-shutdownDone
	logger.Info("campshare API stopped")
	return nil
}
