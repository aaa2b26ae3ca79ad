// Command lawcheck is a terminal client for the Legal Fact Checker
// backend. Run without arguments it starts the interactive chat
// interface; subcommands cover authentication and one-shot checks and
// searches.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lawcheck/cmd/lawcheck/chat"
	"lawcheck/internal/api"
	"lawcheck/internal/auth"
	"lawcheck/internal/config"
	"lawcheck/internal/search"
	"lawcheck/internal/session"
)

var (
	// Global flags
	verbose    bool
	backendURL string
	timeout    time.Duration

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lawcheck",
	Short: "lawcheck - AI legal fact checking from the terminal",
	Long: `lawcheck holds a multi-turn conversation with a legal fact-checking
service and searches its legal-article index.

Fact-check verdicts are one of TRUE, PARTIALLY TRUE, FALSE, or
INDETERMINATE, with an explanation, optional example case and caution
note, and the law articles the verdict is grounded on.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = buildLogger(cmd.Root().Name() == cmd.Name())
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// buildLogger sets up zap. The interactive TUI owns the terminal, so
// its logs go to a file under ~/.lawcheck instead of stdout; one-shot
// commands log to stderr when --verbose is set and stay quiet
// otherwise.
func buildLogger(interactive bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	if interactive {
		home, err := os.UserHomeDir()
		if err != nil {
			return zap.NewNop(), nil
		}
		logDir := filepath.Join(home, ".lawcheck")
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return zap.NewNop(), nil
		}
		cfg.OutputPaths = []string{filepath.Join(logDir, "lawcheck.log")}
		cfg.ErrorOutputPaths = cfg.OutputPaths
	} else {
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	return cfg.Build()
}

// deps bundles the constructed client stack.
type deps struct {
	cfg      config.Config
	backend  *api.Client
	gate     *auth.Gate
	session  *session.Session
	searcher *search.Client
}

func buildDeps() deps {
	cfg := config.Load()
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if timeout > 0 {
		cfg.RequestTimeout = timeout
	}

	backend := api.New(cfg.BackendURL, cfg.RequestTimeout, logger)
	return deps{
		cfg:      cfg,
		backend:  backend,
		gate:     auth.NewGate(cfg, backend, logger),
		session:  session.New(backend, logger),
		searcher: search.New(backend, logger),
	}
}

func runInteractive() error {
	d := buildDeps()
	model := chat.New(d.gate, d.session, d.searcher, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides LAWCHECK_BACKEND_URL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (overrides LAWCHECK_TIMEOUT)")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
