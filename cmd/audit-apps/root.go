package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pscheid92/freight/internal/adapter/postgres"
	"github.com/pscheid92/freight/internal/app"
	"github.com/pscheid92/freight/internal/plugin"
)

var errInvalidApps = errors.New("invalid app configurations found")

type auditOptions struct {
	databaseURL string
	catalogPath string
	pageSize    int32
	timeout     time.Duration
	verbose     bool
}

func newRootCommand() *cobra.Command {
	opts := auditOptions{
		databaseURL: os.Getenv("DATABASE_URL"),
		catalogPath: os.Getenv("PLUGIN_CATALOG"),
	}

	cmd := &cobra.Command{
		Use:           "audit-apps",
		Short:         "Re-validate stored app configurations against the plugin catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.databaseURL, "database", opts.databaseURL, "PostgreSQL URL (or set DATABASE_URL env)")
	flags.StringVar(&opts.catalogPath, "catalog", opts.catalogPath, "Plugin catalog YAML (or set PLUGIN_CATALOG env)")
	flags.Int32Var(&opts.pageSize, "page-size", 100, "Apps fetched per query")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Overall audit timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runAudit(cmd *cobra.Command, opts auditOptions) error {
	if opts.databaseURL == "" {
		return errors.New("database URL required (--database or DATABASE_URL env)")
	}

	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))

	regs, err := plugin.NewBuiltinRegistries()
	if err != nil {
		return fmt.Errorf("register built-in plugins: %w", err)
	}
	if opts.catalogPath != "" {
		n, err := plugin.LoadCatalog(opts.catalogPath, regs)
		if err != nil {
			return fmt.Errorf("load plugin catalog: %w", err)
		}
		slog.Info("Plugin catalog loaded", "path", opts.catalogPath, "plugins", n)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	pool, err := postgres.Connect(ctx, opts.databaseURL, nil)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	slog.Info("Connected to database", "url", sanitizeURL(opts.databaseURL))

	start := time.Now()
	auditor := app.NewAuditor(regs.Providers, regs.Checks, regs.Notifiers)
	report, err := auditor.Run(ctx, postgres.NewAppStore(pool), opts.pageSize)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderFailures(report.Failures))
	}
	slog.Info("Audit summary",
		"scanned", report.Scanned,
		"invalid", len(report.Failures),
		"duration_ms", time.Since(start).Milliseconds())

	if len(report.Failures) > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidApps, len(report.Failures), report.Scanned)
	}
	return nil
}

func renderFailures(failures []app.AuditFailure) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{strconv.FormatInt(f.AppID, 10), f.Name, f.Err.Name, f.Err.Message})
	}
	return renderTable(
		[]string{"ID", "App", "Error", "Message"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

// sanitizeURL hides the password of a connection URL for logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid URL"
	}
	return u.Redacted()
}
