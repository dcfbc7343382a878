package main

import (
	"flag"
	"fmt"
	"os"

	"banglaixanh/tool/internal/addressapi"
	"banglaixanh/tool/internal/auth"
	"banglaixanh/tool/internal/config"
	"banglaixanh/tool/internal/logger"
	"banglaixanh/tool/internal/monitor"
	"banglaixanh/tool/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	var (
		cfgPath = flag.String("config", "config/config.yaml", "Path to configuration file")
		apiURL  = flag.String("api", "", "Backend base URL (overrides tool.api.base_url)")
		inbox   = flag.String("inbox", "", "Directory watched for new spreadsheets (overrides tool.inbox_dir)")
		logout  = flag.Bool("logout", false, "Forget the saved token before starting")
	)
	flag.Parse()

	cfg := config.Init(*cfgPath)
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *inbox != "" {
		cfg.InboxDir = *inbox
	}
	if err := logger.Init(cfg.LogPath); err != nil {
		fmt.Fprintln(os.Stderr, "cannot open log file:", err)
	}
	logger.Infof("Starting, backend=%s", cfg.APIBaseURL)

	api, err := addressapi.New(cfg.APIBaseURL, cfg.RequestTimeout, cfg.DownloadDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *logout {
		if err := auth.Logout(); err != nil {
			logger.Warnf("Cannot clear old token: %v", err)
		}
	}
	token, err := auth.LoadToken()
	if err != nil && err != auth.ErrNoToken {
		logger.Warnf("Cannot read saved token: %v", err)
	}

	opts := ui.Options{Token: token, Files: flag.Args()}
	if cfg.InboxDir != "" {
		in, err := monitor.NewInbox(cfg.InboxDir, monitor.DefaultSettle)
		if err != nil {
			logger.Errorf("Inbox disabled: %v", err)
		} else {
			defer in.Close()
			opts.Inbox = in.Arrivals()
		}
	}

	session := ui.NewSession(api, cfg)
	defer session.Close()

	p := tea.NewProgram(ui.NewRootModel(session, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Errorf("UI exited: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Info("Bye")
}
