package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/SscSPs/budget_ledger/internal/adapters/database/sqlite"
	portssvc "github.com/SscSPs/budget_ledger/internal/core/ports/services"
	"github.com/SscSPs/budget_ledger/internal/core/services"
	"github.com/SscSPs/budget_ledger/internal/platform/config"
	"github.com/SscSPs/budget_ledger/internal/platform/logging"
	"github.com/SscSPs/budget_ledger/pkg/database"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	db      *sql.DB
	svc     *portssvc.ServiceContainer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Envelope budgeting ledger",
		Long: `ledger keeps budgets, accounts, payees, categories and transactions in a
local SQLite file. Transfers between accounts are posted on both sides atomically.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	root.PersistentFlags().String("db", "", "ledger file (default: SQLITE_PATH or ledger.db)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (text, json)")

	_ = a.v.BindPFlag("SQLITE_PATH", root.PersistentFlags().Lookup("db"))
	_ = a.v.BindPFlag("LOG_LEVEL", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("LOG_FORMAT", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(
		a.budgetCmd(),
		a.accountCmd(),
		a.payeeCmd(),
		a.categoryCmd(),
		a.txnCmd(),
		a.importOFXCmd(),
		a.exportCmd(),
	)
	return root
}

// open loads configuration and opens the ledger file, applying migrations.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	config.SetDefaults(a.v)
	a.v.SetDefault("LOG_FORMAT", "text")
	a.v.SetDefault("LOG_LEVEL", "warn")
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	a.cfg = config.FromViper(a.v)
	a.logger = logging.New(os.Stderr, a.cfg.LogLevel, a.cfg.LogFormat)
	slog.SetDefault(a.logger)

	ctx := cmd.Context()
	db, err := database.OpenSQLite(ctx, a.cfg.SQLitePath)
	if err != nil {
		return err
	}
	if err := database.RunSQLiteMigrations(db, a.logger); err != nil {
		_ = db.Close()
		return err
	}
	a.db = db
	a.svc = services.NewServiceContainer(sqlite.NewRepositoryProvider(db, a.cfg.DBTxTimeout))

	cmd.SetContext(logging.WithLogger(ctx, a.logger))
	return nil
}

func (a *app) close(_ *cobra.Command, _ []string) error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
