package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazypower/moodlog/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveBind string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "Listen address (default 127.0.0.1)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default 37778)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveBind != "" {
		cfg.Server.Bind = serveBind
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	j, err := newJournal(st)
	if err != nil {
		return err
	}

	srv := server.New(j, VersionString(), logger)
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	errc := make(chan error, 1)
	go func() {
		logger.Info("moodlog serving",
			zap.String("addr", "http://"+addr),
			zap.String("store", st.Path()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-done:
	}
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
