package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// RefreshResult tracks what a scheduled refresh accomplished.
type RefreshResult struct {
	Weeks      int
	LatestFile string
	Summary    Summary
	Snapshots  int
}

// RefreshAndSnapshot reloads the manifest, re-renders the latest week, and
// archives its summary. It has no Slack dependency so it can be called from
// both the scheduler and tests.
func RefreshAndSnapshot(ctrl *Controller, db *sql.DB) (RefreshResult, error) {
	if err := ctrl.Refresh(); err != nil {
		return RefreshResult{}, err
	}

	ds, summary, _, ok := ctrl.Selected()
	if !ok {
		return RefreshResult{}, fmt.Errorf("refresh finished with no selected week")
	}

	result := RefreshResult{
		Weeks:      len(ctrl.Datasets()),
		LatestFile: ds.File,
		Summary:    summary,
	}

	if err := InsertWeekSummary(db, ds, summary); err != nil {
		return result, fmt.Errorf("archiving week summary: %w", err)
	}
	count, err := GetWeekSnapshotCount(db, ds.File)
	if err == nil {
		result.Snapshots = count
	}
	return result, nil
}

// FormatRefreshSummary returns a human-readable summary of a RefreshResult.
func FormatRefreshSummary(result RefreshResult) string {
	return fmt.Sprintf("Refreshed %d weeks; latest %s: %d events, %d violations (%d snapshots archived)",
		result.Weeks, result.LatestFile, result.Summary.Total, result.Summary.Violations, result.Snapshots)
}

// StartRefreshScheduler starts a cron-based scheduler that periodically
// refreshes the manifest, snapshots the latest week, and posts the digest.
// The schedule is a standard 5-field cron expression (minute hour day-of-month month day-of-week).
// Examples: "0 7 * * *" (daily 7am), "0 7 * * 1" (Mondays 7am).
func StartRefreshScheduler(cfg Config, ctrl *Controller, db *sql.DB, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.RefreshSchedule)
	if schedule == "" {
		log.Println("Scheduled refresh disabled (refresh_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid refresh_schedule '%s': %v — scheduled refresh disabled", schedule, err)
		return
	}
	log.Printf("Scheduled refresh enabled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next refresh at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			result, refreshErr := RefreshAndSnapshot(ctrl, db)
			if refreshErr != nil {
				log.Printf("Scheduled refresh error: %v", refreshErr)
				continue
			}
			log.Printf("Scheduled refresh complete: %s", FormatRefreshSummary(result))

			if cfg.SlackConfigured() && api != nil {
				ds, summary, _, ok := ctrl.Selected()
				if !ok {
					continue
				}
				narrative, _, narrErr := GenerateNarrative(cfg, ds.Label, summary)
				if narrErr != nil {
					log.Printf("Digest narrative skipped: %v", narrErr)
				}
				digest := FormatDigest(ds.Label, summary, narrative)
				if postErr := PostDigest(api, cfg.ReportChannelID, digest); postErr != nil {
					log.Printf("Digest post error: %v", postErr)
				}
			}
		}
	}()
}
