// This program performs administrative tasks for the ledger.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args        conf.Args
		GenesisPath string        `conf:"default:zblock/genesis.json"`
		KeyFolder   string        `conf:"default:zblock/accounts/"`
		Timeout     time.Duration `conf:"default:5m"`
		Verbose     bool          `conf:"default:false"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger admin tool",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	return processCommands(cfg.Args, log, cfg.GenesisPath, cfg.KeyFolder, cfg.Timeout, cfg.Verbose)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, genesisPath string, keyFolder string, timeout time.Duration, verbose bool) error {
	switch args.Num(0) {
	case "demo":
		g, err := genesis.Load(genesisPath)
		if err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}

		var ev func(v string, args ...any)
		if verbose {
			ev = events.New().Handler(log, "00000000-0000-0000-0000-000000000000")
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := commands.Demo(ctx, os.Stdout, g, ev); err != nil {
			return fmt.Errorf("running demo: %w", err)
		}

	case "genkey":
		if err := commands.GenKey(os.Stdout, keyFolder, args.Num(1)); err != nil {
			return fmt.Errorf("generating key: %w", err)
		}

	default:
		fmt.Println("demo:   run three wallets through two mined blocks")
		fmt.Println("genkey: create a key file for a named account")
		fmt.Println("provide a command to get more help.")
		return errors.New("command not provided")
	}

	return nil
}
