package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/calendar"
	"github.com/FanchonSora/V-Assistant/internal/config"
	"github.com/FanchonSora/V-Assistant/internal/session"
	"github.com/FanchonSora/V-Assistant/internal/update"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vassist: %v\n", err)
		os.Exit(1)
	}

	tokenPath := cfg.Client.TokenPath
	if tokenPath == "" {
		tokenPath = session.DefaultPath()
	}
	tokens := session.NewStore(tokenPath)
	client := api.NewClient(cfg.Client.APIBase, tokens, cfg.Client.RequestTimeout())

	m := update.NewModel(client, tokens, calendar.Granularity(cfg.Client.DefaultGranularity), cfg.Client.RequestTimeout())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "vassist failed: %v\n", err)
		os.Exit(1)
	}
}
