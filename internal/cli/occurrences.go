package cli

import (
	"context"
	"fmt"
	"log"
	"time"
)

const dateLayout = "2006-01-02"

func (a *App) occurrences(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: occurrences <user-id> <from> <to> (dates as 2006-01-02)")
		return
	}

	start, err := time.Parse(dateLayout, args[1])
	if err != nil {
		fmt.Println("bad from date:", args[1])
		return
	}
	end, err := time.Parse(dateLayout, args[2])
	if err != nil {
		fmt.Println("bad to date:", args[2])
		return
	}

	projections, err := a.events.OccurrencesInRange(ctx, args[0], start, end)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(projections) == 0 {
		fmt.Println("no occurrences in range")
		return
	}

	for _, p := range projections {
		fmt.Printf("%s  event %s  hebrew year %d  anniversary %d\n",
			p.Date.Format(dateLayout), p.SeriesID, p.HebrewYear, p.Anniversary)
	}
}
