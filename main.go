// MiniTel is a contact directory kept in CSV files.
//
// Usage:
//
//	minitel [-config file] <command> [flags]
//
// Commands: add, find, search, delete, restore, list, export, history, stats.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/term"

	"github.com/mainakpaul2005/MiniTel/config"
	"github.com/mainakpaul2005/MiniTel/database"
	"github.com/mainakpaul2005/MiniTel/executor"
	"github.com/mainakpaul2005/MiniTel/logging"
)

const usage = `usage: minitel [-config file] <command> [flags]

commands:
  add -name NAME -phone PHONE -email EMAIL
  find -name NAME | -id ID
  search QUERY
  delete -name NAME [-yes]
  restore [-id ID] [-yes]
  list [-all]
  export [-o PATH] [-sqlite PATH]
  history -name NAME
  stats
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("minitel", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	configPath := fs.String("config", "minitel.yaml", "path to the YAML config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New("minitel", os.Stderr, logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	dir, err := database.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer dir.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exec := executor.New(dir)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		exec.Confirm = promptConfirm
	}

	out, err := exec.Execute(ctx, fs.Args())
	if out != "" {
		fmt.Println(out)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usageErr *executor.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		if errors.Is(err, database.ErrNotConfirmed) {
			fmt.Fprintln(os.Stderr, "Pass -yes to confirm when not running on a terminal.")
		}
		return 1
	}
	return 0
}

// promptConfirm asks on stdout and reads y/n from stdin
func promptConfirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
