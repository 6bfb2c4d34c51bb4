package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/report"
	"github.com/securepass/securepass-go/internal/service"
)

var (
	ErrEmptyInput      = errors.New("no passwords found in file")
	ErrNothingAnalyzed = errors.New("no passwords were successfully analyzed")
)

type BatchCommand struct {
	File     string `short:"f" long:"file" description:"file with one password per line" value-name:"FILE" required:"true"`
	Output   string `short:"o" long:"output" description:"output format" choice:"text" choice:"json" choice:"csv" default:"text"`
	Export   string `long:"export" description:"write results to this file instead of STDOUT" value-name:"PATH"`
	NoBreach bool   `long:"no-breach" description:"skip the breach database lookup"`
	Workers  int    `short:"w" long:"workers" description:"number of parallel workers" value-name:"N"`
	NoColor  bool   `long:"no-color" description:"disable coloured output"`
}

func (command *BatchCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fh, err := os.Open(command.File)
	if err != nil {
		return err
	}
	passwords, err := readPasswords(fh)
	fh.Close()
	if err != nil {
		return fmt.Errorf("reading %s: %w", command.File, err)
	}
	if len(passwords) == 0 {
		return ErrEmptyInput
	}

	workers := command.Workers
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(stderr, "Analyzing %d passwords...\n", len(passwords))
	batch := service.NewBatchService(newAnalyzer(cfg, !command.NoBreach), workers)
	resp, runErr := batch.Run(ctx, passwords, service.BatchOptions{
		CheckBreach: !command.NoBreach,
		Source:      "cli",
	})
	for _, f := range resp.Failures {
		slog.Warn("password not analyzed", "line", f.Index+1, "error", f.Error)
	}
	if resp.Partial {
		fmt.Fprintln(stderr, "Operation cancelled, results are partial")
	}
	if len(resp.Results) == 0 {
		if runErr != nil {
			return fmt.Errorf("%w: %v", ErrNothingAnalyzed, runErr)
		}
		return ErrNothingAnalyzed
	}

	if err := command.writeResults(resp); err != nil {
		return err
	}

	if resp.Partial {
		return &ExitError{Code: 1}
	}
	return nil
}

func (command *BatchCommand) writeResults(resp model.BatchResponse) error {
	summary := report.NewTextWriter(stdout, !command.NoColor, false)

	if command.Export == "" {
		if command.Output == "text" {
			return summary.WriteSummary(resp.Summary)
		}
		return writeFormat(stdout, command.Output, resp.Results)
	}

	if err := summary.WriteSummary(resp.Summary); err != nil {
		return err
	}

	f, err := os.Create(command.Export)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := writeFormat(f, command.Output, resp.Results); err != nil {
		f.Close()
		return fmt.Errorf("exporting results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}

	fmt.Fprintf(stdout, "Results exported to: %s (%s format)\n", command.Export, command.Output)
	return nil
}

func writeFormat(w io.Writer, format string, results []model.PasswordAnalysis) error {
	switch format {
	case "json":
		return report.WriteJSON(w, results)
	case "csv":
		return report.WriteCSV(w, results)
	default:
		tw := report.NewTextWriter(w, false, true)
		for i, a := range results {
			if _, err := fmt.Fprintf(w, "Password #%d\n", i+1); err != nil {
				return err
			}
			if err := tw.WriteAnalysis(a); err != nil {
				return err
			}
		}
		return nil
	}
}
