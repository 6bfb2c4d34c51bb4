package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/securepass/securepass-go/internal/model"
	"github.com/securepass/securepass-go/internal/service"
)

type GenerateCommand struct {
	Length         int  `short:"l" long:"length" default:"16" description:"password length (8-128)" value-name:"N"`
	NoSymbols      bool `long:"no-symbols" description:"exclude symbols"`
	NoUppercase    bool `long:"no-uppercase" description:"exclude uppercase letters"`
	NoDigits       bool `long:"no-digits" description:"exclude digits"`
	AvoidAmbiguous bool `long:"avoid-ambiguous" description:"exclude look-alike characters (0 O 1 l I)"`
}

func (command *GenerateCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	upper, digits, symbols := !command.NoUppercase, !command.NoDigits, !command.NoSymbols
	gen := service.NewGeneratorService(newAnalyzer(cfg, false))
	resp, err := gen.Generate(context.Background(), model.GenerateRequest{
		Length:         command.Length,
		Uppercase:      &upper,
		Numbers:        &digits,
		Symbols:        &symbols,
		AvoidAmbiguous: command.AvoidAmbiguous,
	})
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 70)
	fmt.Fprintf(stdout, "\n%s\n  GENERATED PASSWORD\n%s\n\n  %s\n\n%s\n", rule, rule, resp.Password, rule)
	fmt.Fprintln(stdout, "\nCopy this password to a secure location before closing!")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Password Strength Analysis:")
	fmt.Fprintf(stdout, "  Strength Score: %d/100 (%s)\n", resp.StrengthScore, strings.ToUpper(string(resp.StrengthRating)))
	fmt.Fprintf(stdout, "  Entropy: %.1f bits\n", resp.EntropyBits)
	fmt.Fprintf(stdout, "  Character Pool: %d characters\n\n", resp.CharacterPoolSize)
	return nil
}

