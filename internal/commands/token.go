package commands

import (
	"fmt"
	"time"

	"github.com/securepass/securepass-go/internal/config"
	"github.com/securepass/securepass-go/internal/crypto"
)

type TokenCommand struct {
	Subject string        `short:"s" long:"subject" description:"name of the API client" value-name:"NAME" required:"true"`
	TTL     time.Duration `long:"ttl" description:"token lifetime, defaults to JWT_EXPIRY" value-name:"DURATION"`
}

func (command *TokenCommand) Execute(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ttl := command.TTL
	if ttl <= 0 {
		ttl = cfg.JWTExpiry
	}

	token, err := crypto.GenerateToken(command.Subject, crypto.ScopeBatch, cfg.JWTSecret, ttl)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, token)
	return err
}
