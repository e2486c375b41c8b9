package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/siba2623/portfolio-assistant/internal/api"
	"github.com/siba2623/portfolio-assistant/internal/config"
	"github.com/siba2623/portfolio-assistant/internal/contact"
	"github.com/siba2623/portfolio-assistant/internal/kb"
	"github.com/siba2623/portfolio-assistant/internal/prefs"
	"github.com/siba2623/portfolio-assistant/internal/responder"
	"github.com/siba2623/portfolio-assistant/internal/session"
)

const sweepInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		mcpEnabled, _ := cmd.Flags().GetBool("mcp")
		return runServe(mcpEnabled)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also expose the responder over MCP on stdio")
}

func runServe(mcpEnabled bool) error {
	fmt.Fprintf(os.Stderr, "assistant version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	base, err := buildKnowledgeBase(cfg)
	if err != nil {
		return err
	}

	store, err := prefs.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening preference store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing preference store: %v\n", err)
		}
	}()

	resp := responder.New(base)
	sessions := session.NewManager(resp,
		session.WithTypingDelay(cfg.TypingDelay()),
		session.WithTTL(cfg.SessionTTL()),
	)

	forwarder := contact.NewForwarder(cfg.Contact.FormEndpoint, nil)
	if !forwarder.Enabled() {
		slog.Info("contact forwarding disabled (no endpoint configured)")
	}

	handler := api.NewHandler(api.Deps{
		Sessions:  sessions,
		Prefs:     store,
		Forwarder: forwarder,
		KB:        base,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "assistant listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		sessions.Run(gctx, sweepInterval)
		return nil
	})

	if mcpEnabled {
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Responder: resp,
			KB:        base,
			Version:   version,
		})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio server error: %w", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildKnowledgeBase assembles the compiled-in data, config overrides,
// and the optional resume attachment, then freezes the result.
func buildKnowledgeBase(cfg config.Config) (*kb.KnowledgeBase, error) {
	base := kb.Default()
	if cfg.Site.Owner != "" {
		base.Owner = cfg.Site.Owner
	}

	if cfg.Site.ResumePath != "" {
		text, err := kb.LoadResume(cfg.Site.ResumePath)
		if err != nil {
			// A broken resume must not keep the widget down.
			slog.Warn("could not attach resume", "path", cfg.Site.ResumePath, "error", err)
		} else {
			base.ResumeText = text
			slog.Info("resume attached", "path", cfg.Site.ResumePath, "chars", len(text))
		}
	}

	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}
