package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/securepass/securepass-go/internal/commands"
)

func main() {
	_ = godotenv.Load()

	parser := flags.NewParser(&commands.SecurePass, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		commands.SetupLogging(commands.SecurePass.Debug)
		if command == nil {
			return nil
		}
		return command.Execute(args)
	}

	_, err := parser.Parse()
	if err == nil {
		return
	}

	var exitErr *commands.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Fprintln(os.Stdout, flagsErr.Message)
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
