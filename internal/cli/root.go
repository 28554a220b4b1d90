// Package cli implements the tally command-line interface: a thin display
// layer over the tally Store.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/kv"
	"github.com/mesh-intelligence/tally/internal/log"
	"github.com/mesh-intelligence/tally/internal/paths"
	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// session is the state shared by the commands of one invocation. Storage is
// only opened by commands that need it, so plan and version never touch it.
type session struct {
	flags rootFlags
	cfg   types.Config
	log   *log.Logger
}

// NewRootCmd creates the top-level "tally" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	s := &session{log: log.Discard()}

	root := &cobra.Command{
		Use:   "tally",
		Short: "Tally materials and the container sizes that cover them",
		Long: `tally records requested quantities of each material and suggests
which container sizes to pick so the total is covered. State is saved
between runs.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&s.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().BoolVar(&s.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(s))
	root.AddCommand(newShowCmd(s))
	root.AddCommand(newSubmitCmd(s))
	root.AddCommand(newRemoveCmd(s))
	root.AddCommand(newResetCmd(s))
	root.AddCommand(newPlanCmd(s))

	return root
}

// setup loads .env and config.yaml and builds the session logger.
func (s *session) setup(cmd *cobra.Command) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}
	if err := loadEnvFile(); err != nil {
		return sysError(err)
	}

	configDir, err := paths.ResolveConfigDir(s.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	cfg, err := buildConfig(v, s.flags.dataDir)
	if err != nil {
		return sysError(err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return sysError(err)
	}
	s.cfg = cfg

	lc := log.DefaultConfig()
	lc.Level = level
	lc.Component = log.ComponentCLI
	lc.Output = cmd.ErrOrStderr()
	s.log = log.New(lc).With(log.FieldSession, newSessionID())
	log.SetDefault(s.log)
	return nil
}

// withStore opens the configured backend, loads the saved state, runs fn,
// and closes the backend again.
func (s *session) withStore(fn func(*tally.Store) error) (err error) {
	store, err := kv.Open(s.cfg, s.log)
	if err != nil {
		return sysError(fmt.Errorf("open %s storage: %w", s.cfg.Backend, err))
	}
	defer func() {
		cerr := store.Close()
		if cerr == nil {
			return
		}
		s.log.WithComponent(log.ComponentStorage).Error("failed to close storage",
			log.FieldOperation, log.OpClose, log.FieldBackend, s.cfg.Backend, log.FieldError, cerr)
		if err == nil {
			err = sysError(fmt.Errorf("close storage: %w", cerr))
		}
	}()

	st, err := tally.New(s.cfg.Categories, store,
		tally.WithKey(s.cfg.StorageKey),
		tally.WithLogger(s.log),
	)
	if err != nil {
		return sysError(err)
	}
	st.Load()
	s.log.Debug("opened store", log.FieldBackend, s.cfg.Backend, log.FieldKey, s.cfg.StorageKey)

	return fn(st)
}

// resolveCategory maps a command-line name onto a configured category name,
// ignoring case.
func (s *session) resolveCategory(arg string) (string, error) {
	for _, c := range s.cfg.Categories {
		if strings.EqualFold(c.Name, arg) {
			return c.Name, nil
		}
	}
	names := make([]string, 0, len(s.cfg.Categories))
	for _, c := range s.cfg.Categories {
		names = append(names, c.Name)
	}
	return "", userError(fmt.Errorf("%w: %q (known: %s)", types.ErrCategoryNotFound, arg, strings.Join(names, ", ")))
}

// newSessionID tags every log line of one invocation.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error { return &exitError{code: exitSysError, err: err} }

// exitCode returns the exit code for err. Errors that were not classified,
// such as cobra argument errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes root with args. A panic anywhere below is reported with a
// way out: erasing the saved state, which is the usual culprit.
func run(root *cobra.Command, args []string, stdout, stderr io.Writer) (code int) {
	// setup points the slog default at this invocation's stderr.
	defer slog.SetDefault(slog.Default())
	defer func() {
		if r := recover(); r != nil {
			logger := log.New(log.Config{Component: log.ComponentCLI, Output: stderr})
			logger.Error("unexpected failure", log.FieldOperation, log.OpRecover, log.FieldError, fmt.Sprint(r))
			logger.Debug("stack", "trace", string(debug.Stack()))
			fmt.Fprintln(stderr, "Something went wrong. If it keeps happening, run `tally reset` to erase saved state and start over.")
			code = exitSysError
		}
	}()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}
