package main

import (
	"log"
	"net/http"

	"github.com/slack-go/slack"
)

func main() {
	cfg := LoadConfig()
	appliedHTTPTimeout := ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf("Config loaded. Manifest=%s Data=%s DB=%s ExternalHTTPTimeout=%s",
		cfg.ManifestSource, cfg.DataSource, cfg.DBPath, appliedHTTPTimeout)

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	view := &dashboardView{}
	ctrl := NewController(cfg.Source(), view)
	if err := ctrl.Initialize(); err != nil {
		// Not fatal: the dashboard serves the error panel and recovers on a
		// later valid selection or scheduled refresh.
		log.Printf("Initial load failed: %v", err)
	} else {
		if ds, summary, _, ok := ctrl.Selected(); ok {
			if err := InsertWeekSummary(db, ds, summary); err != nil {
				log.Printf("week summary archive error: %v", err)
			}
			log.Printf("Initial week %s loaded: %d events, %d violations", ds.File, summary.Total, summary.Violations)
		}
	}

	var api *slack.Client
	if cfg.SlackConfigured() {
		api = slack.New(cfg.SlackBotToken)
	}
	StartRefreshScheduler(cfg, ctrl, db, api)

	srv := NewServer(cfg, ctrl, view, db)
	log.Printf("Starting Safety Violations Dashboard on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}
