package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/investigator-sheets/internal/config"
	"github.com/jwebster45206/investigator-sheets/internal/logger"
	"github.com/jwebster45206/investigator-sheets/internal/sheetclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the terminal UI, so logs go to LOG_FILE or nowhere
	w, closeLog, err := logger.OpenLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() {
		_ = closeLog() // Ignore error in defer
	}()

	log := logger.Setup(cfg, w)
	log.Info("Starting console",
		"environment", cfg.Environment,
		"transport", cfg.SheetTransport,
		"configured", cfg.SheetConfigured())

	client := sheetclient.NewFromConfig(cfg, log)

	p := tea.NewProgram(NewConsoleUI(client, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("Console exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		_ = closeLog()
		os.Exit(1)
	}
}
