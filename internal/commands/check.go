package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/securepass/securepass-go/internal/patterns"
	"github.com/securepass/securepass-go/internal/report"
	"github.com/securepass/securepass-go/internal/service"
)

type CheckCommand struct {
	NoBreach bool `long:"no-breach" description:"skip the breach database lookup"`
	Verbose  bool `short:"v" long:"verbose" description:"show the hash prefix, timestamp and pattern findings"`
	JSON     bool `long:"json" description:"print the analysis as JSON"`
	NoColor  bool `long:"no-color" description:"disable coloured output"`
}

func (command *CheckCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	password, err := readSecret("Password: ")
	if err != nil {
		return err
	}

	analyzer := newAnalyzer(cfg, !command.NoBreach)
	if !command.JSON {
		fmt.Fprintln(stderr, "Analyzing password...")
	}
	analysis := analyzer.Analyze(context.Background(), password, service.AnalyzeOptions{
		CheckBreach: !command.NoBreach,
		Source:      "cli",
	})

	if command.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	if err := report.NewTextWriter(stdout, !command.NoColor, command.Verbose).WriteAnalysis(analysis); err != nil {
		return err
	}
	if command.Verbose {
		return writeFindings(patterns.Detect(password))
	}
	return nil
}

func writeFindings(f patterns.Findings) error {
	_, err := fmt.Fprintf(stdout, "Pattern Findings:\n  Common pattern: %t\n  Sequential characters: %t\n  Repeated characters: %t\n  Keyboard run: %t\n",
		f.Common, f.Sequential, f.Repeated, f.Keyboard)
	return err
}
