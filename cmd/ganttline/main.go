package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/ganttline/internal/cli"
	"github.com/alexanderramin/ganttline/internal/config"
	"github.com/alexanderramin/ganttline/internal/db"
	"github.com/alexanderramin/ganttline/internal/gantt"
	"github.com/alexanderramin/ganttline/internal/repository"
	"github.com/alexanderramin/ganttline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	var observer gantt.Observer = gantt.NoopObserver{}
	var useCases service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogEvents {
		observer = gantt.NewLogObserver(os.Stderr)
		useCases = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Charts:   service.NewChartService(repository.NewSQLiteChartRepo(database)),
		Data:     service.NewDatasetService(uow, useCases),
		Import:   service.NewImportService(uow, useCases),
		Config:   cfg,
		Observer: observer,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
