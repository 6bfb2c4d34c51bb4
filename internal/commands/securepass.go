package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/securepass/securepass-go/internal/breach"
	"github.com/securepass/securepass-go/internal/config"
	"github.com/securepass/securepass-go/internal/dictionary"
	"github.com/securepass/securepass-go/internal/service"
)

type SecurePassCommand struct {
	Debug bool `long:"debug" description:"log debug output to stderr"`

	Check    CheckCommand    `command:"check" description:"Analyze a password read from a hidden prompt or STDIN"`
	Generate GenerateCommand `command:"generate" description:"Generate a secure random password"`
	Batch    BatchCommand    `command:"batch" description:"Analyze passwords from a file, one per line"`
	Token    TokenCommand    `command:"token" description:"Issue a bearer token for the batch API"`
}

var SecurePass SecurePassCommand

// Commands write here; tests swap them.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ExitError carries a non-zero exit status out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// SetupLogging installs a text handler on stderr.
func SetupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
}

// newAnalyzer wires the analyzer the same way the API server does, without an audit log.
func newAnalyzer(cfg config.Config, checkBreach bool) *service.AnalyzerService {
	dict := dictionary.New(cfg.WordlistPath)

	if !checkBreach {
		return service.NewAnalyzerService(dict, nil)
	}

	return service.NewAnalyzerService(dict, breach.NewClient(breach.Options{
		BaseURL:     cfg.BreachAPIURL,
		UserAgent:   cfg.BreachUserAgent,
		Timeout:     cfg.BreachTimeout,
		MaxRetries:  cfg.BreachMaxRetries,
		Concurrency: cfg.BreachConcurrency,
		RPS:         cfg.BreachRPS,
	}))
}
