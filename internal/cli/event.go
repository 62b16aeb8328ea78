package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hebsync/hebsync/internal/server/services"
)

func (a *App) addEvent(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: addevent <user-id>")
		return
	}

	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	day, err := GetInt(a.reader, "Hebrew day (1-30)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	month, err := GetInt(a.reader, "Hebrew month (1=Nisan ... 7=Tishrei ... 13=Adar II)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	year, err := GetInt(a.reader, "Hebrew year (e.g. 5745)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	event, outcome, err := a.events.CreateEvent(ctx, services.CreateEventParams{
		UserID:      args[0],
		Title:       title,
		Description: description,
		HebrewDay:   day,
		HebrewMonth: month,
		HebrewYear:  year,
	})
	if event == nil {
		if err != nil {
			log.Println(err.Error())
		}
		return
	}

	fmt.Println("event created:", event.ID)
	if err != nil {
		log.Println(err.Error())
	}
	printOutcome(outcome)
}

func (a *App) listEvents(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: events <user-id>")
		return
	}

	events, err := a.events.ListEvents(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(events) == 0 {
		fmt.Println("no events")
		return
	}

	for _, ev := range events {
		watermark := "never synced"
		if ev.LastSyncedHebrewYear != nil {
			watermark = fmt.Sprintf("synced through %d", *ev.LastSyncedHebrewYear)
		}
		fmt.Printf("%s  %q  origin %s  %s\n", ev.ID, ev.Title, ev.Origin(), watermark)
	}
}

func (a *App) listSynced(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: synced <event-id>")
		return
	}

	occurrences, err := a.events.ListOccurrences(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(occurrences) == 0 {
		fmt.Println("nothing synced yet")
		return
	}

	for _, occ := range occurrences {
		fmt.Printf("%s  external id %s\n", occ.Date.Format("2006-01-02"), occ.ExternalEventID)
	}
}
