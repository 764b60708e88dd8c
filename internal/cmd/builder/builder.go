// Package builder parses builder CLI flags and runs its subcommands.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	entrypoint "github.com/louisbranch/questkit/internal/platform/cmd"
	apperrors "github.com/louisbranch/questkit/internal/platform/errors"
	errorsi18n "github.com/louisbranch/questkit/internal/platform/errors/i18n"
	"github.com/louisbranch/questkit/internal/platform/i18n/catalog"
	"github.com/louisbranch/questkit/internal/services/builder/app"
	"github.com/louisbranch/questkit/internal/services/builder/domain/derive"
	"github.com/louisbranch/questkit/internal/services/builder/domain/rules"
)

// Subcommands accepted as the first positional argument.
const (
	CommandDerive = "derive"
	CommandEncode = "encode"
	CommandDecode = "decode"
	CommandSave   = "save"
	CommandLoad   = "load"
	CommandList   = "list"
)

var commands = []string{CommandDerive, CommandEncode, CommandDecode, CommandSave, CommandLoad, CommandList}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// Config holds builder command configuration.
type Config struct {
	App     app.Config
	Command string
	Args    []string
	// Input is a JSON file holding form fields or an exported snapshot.
	Input string
	JSON  bool
}

// ParseConfig reads the environment through lookup and then flags. The
// first positional argument names the subcommand.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	appCfg, err := app.LoadConfig(lookup)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{App: appCfg}
	fs.StringVar(&cfg.App.RulesPath, "rules", cfg.App.RulesPath, "rules dataset file (.json, .yaml)")
	fs.StringVar(&cfg.App.StateKey, "key", cfg.App.StateKey, "storage key for the build")
	fs.StringVar(&cfg.App.KVBackend, "backend", cfg.App.KVBackend, "key-value backend (bbolt, redis, none)")
	fs.StringVar(&cfg.App.BoltPath, "bolt-path", cfg.App.BoltPath, "bbolt database path")
	fs.StringVar(&cfg.App.RedisAddr, "redis-addr", cfg.App.RedisAddr, "redis address")
	fs.IntVar(&cfg.App.RedisDB, "redis-db", cfg.App.RedisDB, "redis database number")
	fs.StringVar(&cfg.App.SQLitePath, "sqlite-path", cfg.App.SQLitePath, "sqlite database path")
	fs.IntVar(&cfg.App.HistoryCapacity, "history", cfg.App.HistoryCapacity, "undo history capacity")
	fs.StringVar(&cfg.App.Locale, "locale", cfg.App.Locale, "message locale")
	fs.StringVar(&cfg.Input, "in", "", "JSON input file")
	fs.BoolVar(&cfg.JSON, "json", false, "print the snapshot and derived state as JSON")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.App.Validate(); err != nil {
		return Config{}, err
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return Config{}, fmt.Errorf("command is required (%s)", strings.Join(commands, ", "))
	}
	cfg.Command = strings.ToLower(positional[0])
	cfg.Args = positional[1:]
	if !slices.Contains(commands, cfg.Command) {
		return Config{}, fmt.Errorf("unknown command %q", positional[0])
	}
	return cfg, nil
}

// Run executes the configured subcommand.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBuilder, func(ctx context.Context) error {
		return execute(ctx, cfg, out, errOut)
	})
}

// Describe renders err for the terminal. Coded errors use the localized
// catalog; anything else is printed as is.
func Describe(err error, locale string) string {
	if _, ok := apperrors.As(err); ok {
		return errorsi18n.UserMessage(err, locale)
	}
	return err.Error()
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := apperrors.As(err); !ok {
		return 1
	}
	return apperrors.CodeOf(err).ExitCode()
}

func execute(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	ds, err := loadDataset(ctx, cfg.App.RulesPath)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts := []app.Option{app.WithLogger(logger), app.WithHistoryCapacity(cfg.App.HistoryCapacity)}

	switch cfg.Command {
	case CommandDerive, CommandEncode:
		session, err := app.NewSession(ds, opts...)
		if err != nil {
			return err
		}
		if err := importInput(ctx, session, cfg.Input); err != nil {
			return err
		}
		if cfg.Command == CommandEncode {
			token, err := session.ExportToken()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, token)
			return err
		}
		return render(out, session, cfg)

	case CommandDecode:
		if len(cfg.Args) == 0 {
			return fmt.Errorf("decode requires a share token")
		}
		session, err := app.NewSession(ds, opts...)
		if err != nil {
			return err
		}
		if _, err := session.ImportToken(ctx, strings.TrimSpace(cfg.Args[0])); err != nil {
			return err
		}
		return render(out, session, cfg)

	case CommandSave, CommandLoad, CommandList:
		stores, err := app.OpenStores(ctx, cfg.App, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := stores.Close(); err != nil {
				logger.WarnContext(ctx, "close storage", "error", err)
			}
		}()
		if cfg.Command == CommandList {
			return list(ctx, out, stores)
		}
		session, err := app.NewSession(ds, append(opts, app.WithStore(stores.Snapshots, cfg.App.StateKey))...)
		if err != nil {
			return err
		}
		if cfg.Command == CommandLoad {
			if _, err := session.Load(ctx); err != nil {
				return err
			}
			return render(out, session, cfg)
		}
		if err := importInput(ctx, session, cfg.Input); err != nil {
			return err
		}
		if err := session.Save(ctx); err != nil {
			return err
		}
		printer := catalog.Default().Printer(cfg.App.Locale)
		_, err = printer.Fprintf(out, "builder.cli.saved", session.Snapshot().Revision)
		if err == nil {
			_, err = fmt.Fprintln(out)
		}
		return err

	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}

func loadDataset(ctx context.Context, path string) (*rules.Dataset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &rules.Dataset{}, nil
	}
	return rules.LoadFile(ctx, path)
}

func importInput(ctx context.Context, session *app.Session, path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("input file is required (-in)")
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	_, err = session.ImportJSON(ctx, payload)
	return err
}

// report is the -json output.
type report struct {
	Snapshot any          `json:"snapshot"`
	Derived  derive.State `json:"derived"`
}

func render(out io.Writer, session *app.Session, cfg Config) error {
	state := session.Derived()
	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report{Snapshot: session.Snapshot(), Derived: state})
	}

	snap := session.Snapshot()
	name := snap.Data.Name
	if name == "" {
		name = "-"
	}
	class := "-"
	if entries := state.Progression.Entries; len(entries) > 0 {
		class = entries[0].Name
	}
	printer := catalog.Default().Printer(cfg.App.Locale)
	if _, err := printer.Fprintf(out, "builder.cli.summary", name, state.Progression.TotalLevel, class); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	for _, message := range derive.Messages(state.Warnings, cfg.App.Locale) {
		if _, err := fmt.Fprintf(out, "- %s\n", message); err != nil {
			return err
		}
	}
	return nil
}

func list(ctx context.Context, out io.Writer, stores *app.Stores) error {
	if stores.SQLite == nil {
		return errors.New("list requires QUESTKIT_SQLITE_PATH")
	}
	entries, err := stores.SQLite.List(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%d\t%d\n", entry.Key, entry.Name, entry.TotalLevel, entry.Revision); err != nil {
			return err
		}
	}
	return nil
}
