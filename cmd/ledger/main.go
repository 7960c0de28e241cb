// Command ledger runs sheet synchronization against the configured store
// without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/internal/exports"
	"github.com/saksham0021/mira-astrology-review/internal/infrastructure"
	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/internal/reviews"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Synchronize review sessions with the Google Sheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		outcomeCmd("pull", "Import sheet rows into the store", (*ledger.Engine).Pull),
		outcomeCmd("push", "Rewrite the sheet from the store", (*ledger.Engine).Push),
		outcomeCmd("full-sync", "Pull then push", (*ledger.Engine).FullSync),
		outcomeCmd("clear-reviews", "Drop local reviews and pull", (*ledger.Engine).ClearReviews),
		newRowCmd(),
		newStatsCmd(),
		newExportCmd(),
	)
	return root
}

// app is the set of systems one command invocation needs.
type app struct {
	infra   *infrastructure.Infrastructure
	engine  *ledger.Engine
	exports exports.System
}

func open(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(ctx, cfg, stderr)
	if err != nil {
		return nil, err
	}
	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	db := infra.Database.Connection()
	sessionStore := sessions.New(db, infra.Logger, cfg.API.Pagination)
	reviewStore := reviews.New(db, infra.Logger, cfg.API.Pagination)

	a := &app{infra: infra}
	if infra.Sheets != nil {
		a.engine = ledger.New(infra.Sheets, sessionStore, reviewStore, &cfg.Ledger, infra.Logger)
	}
	if infra.Storage != nil {
		a.exports = exports.New(sessionStore, reviewStore, infra.Storage, infra.Logger, cfg.Storage.MaxListSize)
	}
	return a, nil
}

func (a *app) close() {
	if err := a.infra.Lifecycle.Shutdown(10 * time.Second); err != nil {
		a.infra.Logger.Error("shutdown failed", "error", err)
	}
}

func (a *app) requireEngine() error {
	if a.engine == nil {
		return errors.New("sheets are not enabled; set MIRA_SHEETS_ENABLED and a spreadsheet")
	}
	return nil
}

func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := open(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd, a, args)
	}
}

func outcomeCmd(use, short string, op func(*ledger.Engine, context.Context) (ledger.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.requireEngine(); err != nil {
				return err
			}
			out, err := op(a.engine, cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
}

func newRowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "row <session-id>",
		Short: "Rewrite the sheet row of one session",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireEngine(); err != nil {
				return err
			}
			out, err := a.engine.UpdateRow(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
}

func newStatsCmd() *cobra.Command {
	var sessionID string

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show review progress, or one session's state with --session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.requireEngine(); err != nil {
				return err
			}
			if sessionID != "" {
				ins, err := a.engine.Inspect(cmd.Context(), sessionID)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ins)
			}
			s, err := a.engine.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s)
		}),
	}
	stats.Flags().StringVar(&sessionID, "session", "", "inspect a single session")
	return stats
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Upload a CSV of every session and review to blob storage",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if a.exports == nil {
				return errors.New("storage is not enabled; set MIRA_STORAGE_ENABLED")
			}
			exp, err := a.exports.Create(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), exp)
		}),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
