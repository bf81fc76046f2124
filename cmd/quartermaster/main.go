package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/quartermaster/internal/cli"
	"github.com/alexanderramin/quartermaster/internal/db"
	"github.com/alexanderramin/quartermaster/internal/repository"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine network file: env var or ./network.yaml
	networkPath := os.Getenv("QM_NETWORK")
	if networkPath == "" {
		networkPath = "network.yaml"
	}

	// Determine DB path: env var or default ~/.quartermaster/quartermaster.db
	dbPath := os.Getenv("QM_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".quartermaster", "quartermaster.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		NetworkPath: networkPath,
		Cache:       repository.NewSQLiteResolutionCache(database),
		Interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
