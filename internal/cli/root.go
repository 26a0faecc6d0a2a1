// Package cli wires the scriptable command surface. Every backend
// operation is reachable without the TUI; bare `tickit` starts it.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nlsnlaurensius/tickit/internal/api"
	"github.com/nlsnlaurensius/tickit/internal/config"
	"github.com/nlsnlaurensius/tickit/internal/session"
	"github.com/nlsnlaurensius/tickit/internal/tui"
)

// App carries the shared dependencies into every subcommand.
type App struct {
	APIURL  string
	Verbose bool

	cfg     *config.Config
	session *session.Store
	client  *api.Client
	log     *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "tickit",
		Short:         "TickIt task client (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tickit

  # Scriptable commands
  tickit auth login --email you@example.com
  tickit add "Buy milk" --project Groceries
  tickit ls --project Groceries --sort deadline
  tickit done 12
  tickit stats
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return tui.Run(app.session, app.client, app.log)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "override the backend base URL")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}

	cmd.AddCommand(
		newAuthCmd(app),
		newListCmd(app),
		newAddCmd(app),
		newDoneCmd(app),
		newUndoneCmd(app),
		newEditCmd(app),
		newRemoveCmd(app),
		newProjectsCmd(app),
		newClearCompletedCmd(app),
		newStatsCmd(app),
		newProfileCmd(app),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fail(err.Error())
		return 1
	}
	return 0
}

// setup builds config, session and API client once per invocation.
func (a *App) setup() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.ParseLevel()
	if a.Verbose {
		level = log.DebugLevel
	}
	a.log = log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "tickit",
	})

	a.session = session.New(cfg.Dir)
	if err := a.session.Load(); err != nil {
		return err
	}

	baseURL := cfg.APIURL
	if a.APIURL != "" {
		baseURL = a.APIURL
	}
	a.client = api.New(baseURL, a.session, a.log,
		time.Duration(cfg.TimeoutSeconds)*time.Second)
	return nil
}

// requireAuth fails fast for commands that need a token.
func (a *App) requireAuth() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in. Set %s or run `tickit auth login`", session.EnvToken)
	}
	return nil
}

// promptLine reads one line from stdin with a label.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	r := bufio.NewReader(os.Stdin)
	s, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

// confirmPrompt asks y/N on stdin; only an explicit yes proceeds.
func confirmPrompt(question string) (bool, error) {
	ans, err := promptLine(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes", nil
}
