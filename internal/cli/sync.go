package cli

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/hebsync/hebsync/internal/server/models"
)

func (a *App) syncUser(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: sync <user-id>")
		return
	}

	results, err := a.events.SyncUser(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(results) == 0 {
		fmt.Println("no events to sync")
		return
	}

	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("event %s failed: %v\n", res.EventID, res.Err)
			continue
		}
		printOutcome(res.Outcome)
	}
}

func (a *App) syncEvent(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: syncevent <event-id> [hebrew-year ...]")
		return
	}

	years := make([]int, 0, len(args)-1)
	for _, raw := range args[1:] {
		year, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Println("not a year:", raw)
			return
		}
		years = append(years, year)
	}

	outcome, err := a.events.SyncEvent(ctx, args[0], years)
	if err != nil {
		log.Println(err.Error())
	}
	printOutcome(outcome)
}

func (a *App) sweep(ctx context.Context) {
	started := time.Now()
	report, err := a.sweeper.Sweep(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("sweep finished in %s: %d user(s) processed, %d skipped, %d event(s) synced, %d failed\n",
		time.Since(started).Round(time.Millisecond),
		report.UsersProcessed, report.UsersSkipped, report.EventsSynced, report.EventsFailed)
}

func printOutcome(outcome *models.SyncOutcome) {
	if outcome == nil {
		return
	}
	fmt.Printf("event %s: %d year(s) synced", outcome.EventID, len(outcome.SyncedYears))
	if outcome.Watermark != nil {
		fmt.Printf(", watermark %d", *outcome.Watermark)
	}
	fmt.Println()
	for _, ye := range outcome.YearErrors {
		fmt.Printf("  year %d failed: %v\n", ye.Year, ye.Err)
	}
}
