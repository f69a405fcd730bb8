package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mohitkumarrajbadi/Splitzy/internal/auth"
	"github.com/mohitkumarrajbadi/Splitzy/internal/cache"
	"github.com/mohitkumarrajbadi/Splitzy/internal/config"
	"github.com/mohitkumarrajbadi/Splitzy/internal/middleware"
	"github.com/mohitkumarrajbadi/Splitzy/internal/models"
	"github.com/mohitkumarrajbadi/Splitzy/internal/service"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage"
	"github.com/mohitkumarrajbadi/Splitzy/internal/storage/sqlite"
	"github.com/mohitkumarrajbadi/Splitzy/internal/validation"
	"github.com/mohitkumarrajbadi/Splitzy/pkg/logging"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

var errCSVUnsupported = errors.New("csv output is only available for bills and summaries")

// app holds what every subcommand needs once the config has been read.
// The services run in-process against the same SQLite file the server uses.
type app struct {
	v       *viper.Viper
	cfgFile string

	out    io.Writer
	logger *slog.Logger

	store   storage.Store
	access  *service.AccessService
	ledgers *service.LedgerService
	bills   *service.BillService
}

func newApp() *app {
	return &app{v: viper.New()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "splitzy",
		Short: "Shared household ledger",
		Long: `splitzy records who paid for what in a shared household and works out
the fewest transfers that settle everyone up.

It operates directly on the SQLite database used by the splitzy server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/splitzy/config.yaml)")
	flags.String("db", "./data/splitzy.db", "path to the SQLite database")
	flags.StringP("ledger", "l", "", "ledger ID")
	flags.String("as", "", "participant to act as (ID or name, default: first on the roster)")
	flags.StringP("format", "f", formatTable, "output format (table, json, csv)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	_ = a.v.BindPFlag("db.path", flags.Lookup("db"))
	_ = a.v.BindPFlag("ledger", flags.Lookup("ledger"))
	_ = a.v.BindPFlag("as", flags.Lookup("as"))
	_ = a.v.BindPFlag("output.format", flags.Lookup("format"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	a.v.SetDefault("jwt.secret", config.DevJWTSecret)
	a.v.SetDefault("jwt.ttl", 30*24*time.Hour)

	root.AddCommand(a.ledgerCmd())
	root.AddCommand(a.participantCmd())
	root.AddCommand(a.billCmd())
	root.AddCommand(a.settleCmd())
	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.exportCmd())

	return root
}

// init reads the config file and environment, then opens the store.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "splitzy"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("SPLITZY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	switch f := a.format(); f {
	case formatTable, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unsupported output format %q", f)
	}

	a.out = cmd.OutOrStdout()
	a.logger = logging.New(cmd.ErrOrStderr(), logging.ParseLevel(a.v.GetString("logging.level")), a.v.GetString("logging.format"))

	store, err := sqlite.New(a.v.GetString("db.path"))
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store

	validator := validation.New()
	metrics := service.NewMetrics(prometheus.NewRegistry())
	jwtManager := auth.NewJWTManager(a.v.GetString("jwt.secret"), a.v.GetDuration("jwt.ttl"))

	a.access = service.NewAccessService(store, auth.NewPasscodeAuthenticator(0), jwtManager, validator, metrics, a.logger)
	a.ledgers = service.NewLedgerService(store, cache.Noop{}, validator, metrics, a.logger)
	a.bills = service.NewBillService(store, validator, metrics, a.logger)
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
	a.store = nil
}

func (a *app) format() string {
	return strings.ToLower(a.v.GetString("output.format"))
}

// ledger loads the ledger selected with --ledger (or SPLITZY_LEDGER).
func (a *app) ledger(ctx context.Context) (*models.Ledger, error) {
	id := a.v.GetString("ledger")
	if id == "" {
		return nil, errors.New("no ledger selected: pass --ledger or set SPLITZY_LEDGER")
	}
	return a.store.GetLedger(ctx, id)
}

// session loads the selected ledger and scopes ctx to it, acting as the --as
// participant or the first participant on the roster.
func (a *app) session(ctx context.Context) (context.Context, *models.Ledger, error) {
	ledger, err := a.ledger(ctx)
	if err != nil {
		return nil, nil, err
	}

	if len(ledger.Participants) == 0 {
		return nil, nil, fmt.Errorf("ledger %s has no participants", ledger.ID)
	}
	actor := ledger.Participants[0].ID
	if ref := a.v.GetString("as"); ref != "" {
		if actor, err = resolveParticipant(ledger, ref); err != nil {
			return nil, nil, err
		}
	}
	return middleware.WithSession(ctx, ledger.ID, actor), ledger, nil
}

// resolveParticipant accepts a participant ID or a display name (case-insensitive).
func resolveParticipant(ledger *models.Ledger, ref string) (string, error) {
	if ledger.HasParticipant(ref) {
		return ref, nil
	}
	for _, p := range ledger.Participants {
		if strings.EqualFold(p.DisplayName, ref) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", auth.ErrUnknownParticipant, ref)
}

func resolveParticipants(ledger *models.Ledger, refs []string) ([]string, error) {
	ids := make([]string, len(refs))
	for i, ref := range refs {
		id, err := resolveParticipant(ledger, ref)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// describeError strips the RPC code prefix from service errors.
func describeError(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
