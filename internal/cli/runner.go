package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/jotlist/internal/app"
	"github.com/idilsaglam/jotlist/internal/config"
	"github.com/idilsaglam/jotlist/internal/listview"
	"github.com/idilsaglam/jotlist/internal/logging"
	"github.com/idilsaglam/jotlist/internal/store/filestore"
	"github.com/idilsaglam/jotlist/internal/tui"
	"github.com/idilsaglam/jotlist/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError marks errors caused by bad arguments rather than runtime failures.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usage(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// usageArgs tags the positional-argument validator's errors as usage errors.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// runner carries what every subcommand needs. It is built in
// PersistentPreRunE and torn down by Execute.
type runner struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	logger  *zap.Logger
	log     *zap.SugaredLogger
	session *app.Session
	theme   ui.Theme
}

func (r *runner) setup() error {
	if err := r.cfg.Finalize(); err != nil {
		return err
	}
	logger, err := logging.New(r.cfg.LogLevel, r.cfg.LogFile)
	if err != nil {
		if errors.Is(err, logging.ErrBadLevel) {
			return usageError{err}
		}
		return err
	}
	r.logger = logger
	r.log = logger.Sugar()

	if r.cfg.NoColor {
		ui.SetColorForcing(false, true)
	}
	r.theme = ui.ThemeNamed(r.cfg.Theme)
	r.session = app.NewSession(app.SQLiteOpener(r.cfg.DBPath), r.log)
	r.log.Debugw("Config", "db", r.cfg.DBPath, "theme", r.cfg.Theme)
	return nil
}

func (r *runner) close() {
	if r.session != nil {
		if err := r.session.Close(); err != nil {
			r.log.Errorw("Failed to close store", "error", err)
		}
	}
	if r.logger != nil {
		_ = r.logger.Sync()
	}
}

// muted is the hint color. Flag and argument errors can fail before setup
// has picked a theme, so fall back to the default one.
func (r *runner) muted() string {
	if r.theme.Muted != "" {
		return r.theme.Muted
	}
	return ui.ThemeNamed("").Muted
}

// open is used by the one-shot subcommands; the interactive screen opens
// the session itself.
func (r *runner) open(ctx context.Context) error {
	return r.session.Open(ctx)
}

// Execute runs jotlist with args and returns an exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail(stderr, "config: "+err.Error())
		return ExitUsage
	}
	r := &runner{cfg: cfg, out: stdout, errOut: stderr}
	defer r.close()

	root := newRootCommand(r)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		ui.Fail(stderr, err.Error())
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(stderr, ui.C(r.muted(), "Hint: run `jotlist --help` for usage"))
			return ExitUsage
		}
		return ExitError
	}
	return ExitOK
}

func newRootCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jotlist",
		Short: "jotlist - keep a short list of notes",
		Long: `jotlist stores short text items in a local database.

Run without a subcommand for the interactive list: type and press enter to
add, tab to move to the list, d to delete the selected item.`,
		Example: `  jotlist add buy milk
  jotlist ls
  jotlist rm 2
  jotlist export items.yaml`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), r.session, r.log)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	// Global flags; defaults come from the environment
	pf := cmd.PersistentFlags()
	pf.StringVar(&r.cfg.DBPath, "db", r.cfg.DBPath, "path to the items database")
	pf.StringVar(&r.cfg.LogFile, "log-file", r.cfg.LogFile, "log destination (file path, stderr or stdout)")
	pf.StringVar(&r.cfg.LogLevel, "log-level", r.cfg.LogLevel, "log level (debug|info|warn|error)")
	pf.StringVar(&r.cfg.Theme, "theme", r.cfg.Theme, "output theme (classic|neon|mono)")
	pf.BoolVar(&r.cfg.NoColor, "no-color", r.cfg.NoColor, "disable colored output")

	cmd.AddCommand(
		newAddCommand(r),
		newRemoveCommand(r),
		newListCommand(r),
		newExportCommand(r),
		newImportCommand(r),
	)
	return cmd
}

// -------------- subcommand impls ----------------

func newAddCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "add <body...>",
		Short: "Add a new item (words are joined with spaces)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := r.open(ctx); err != nil {
				return err
			}
			// no validation: `jotlist add ""` stores an empty item
			it, _, err := r.session.Add(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(r.out, fmt.Sprintf("added #%d", it.ID))
			return nil
		},
	}
}

func newRemoveCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Remove the item with the given id",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return usage("rm: not a number: %s", args[0])
			}
			ctx := cmd.Context()
			if err := r.open(ctx); err != nil {
				return err
			}
			removed, err := r.session.Delete(ctx, id)
			if err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			if !removed {
				fmt.Fprintln(r.out, ui.C(r.theme.Muted, fmt.Sprintf("no item #%d", id)))
				return nil
			}
			ui.OK(r.out, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

func newListCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List items in id order",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := r.open(ctx); err != nil {
				return err
			}
			snap, err := r.session.Items(ctx)
			if err != nil {
				return fmt.Errorf("ls: %w", err)
			}
			rows := listview.Render(snap.Items)

			if r.out != os.Stdout || !ui.IsTTY() {
				fmt.Fprint(r.out, listview.Plain(rows))
				return nil
			}
			header := fmt.Sprintf("%s  %s %d",
				ui.C(r.theme.Title, "Items"),
				ui.C(r.theme.Accent, "Total"), listview.Count(rows),
			)
			lines := []string{header, ""}
			lines = append(lines, listview.Lines(rows, r.theme)...)
			lines = append(lines, "", ui.C(r.theme.Muted, "Tip: remove with `jotlist rm <id>`"))
			ui.Panel(r.out, r.theme, lines)
			return nil
		},
	}
}

func newExportCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all items to a JSON or YAML file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := r.open(ctx); err != nil {
				return err
			}
			snap, err := r.session.Items(ctx)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if err := filestore.Save(args[0], snap.Items); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			ui.OK(r.out, fmt.Sprintf("exported %d items (%s)", len(snap.Items), filestore.FormatFor(args[0])))
			return nil
		},
	}
}

func newImportCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add every item from a JSON or YAML file (ids are reassigned)",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := filestore.Load(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			ctx := cmd.Context()
			if err := r.open(ctx); err != nil {
				return err
			}
			bodies := make([]string, 0, len(items))
			for _, it := range items {
				bodies = append(bodies, it.Body)
			}
			// all or nothing: a failed import leaves the store as it was
			added, _, err := r.session.AddAll(ctx, bodies)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			ui.OK(r.out, fmt.Sprintf("imported %d items", len(added)))
			return nil
		},
	}
}
