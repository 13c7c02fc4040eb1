// Command admin runs operator tasks against the résumé indexer's database
// and search index.
//
//	admin create-user organizer
//	admin import -source-dir ./pdfs hackers.csv
//	admin search golang kubernetes
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HackNC/resume-parser/internal/admin"
	"github.com/HackNC/resume-parser/internal/app"
	"github.com/HackNC/resume-parser/internal/config"
	"github.com/HackNC/resume-parser/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, admin.Usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	// Operator output goes to stdout; keep logs on stderr.
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("❌ Failed to start services")
		return 1
	}
	defer a.Close()

	cmds := &admin.Commands{
		Accounts:   a.Accounts,
		Candidates: a.Candidates,
		Importer:   a.Importer,
		Files:      a.Files,
		In:         os.Stdin,
		Out:        os.Stdout,
	}

	if err := cmds.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, admin.ErrUsage) {
			fmt.Fprint(os.Stderr, admin.Usage)
			return 2
		}
		return 1
	}
	return 0
}
