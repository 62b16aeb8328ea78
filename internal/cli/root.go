package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Root(ctx context.Context) {

	fmt.Println("hebsync admin console (type 'help' for commands)")

	for {
		fmt.Print("hebsync> ")
		line, err := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "adduser":
			a.addUser(ctx)
		case "user":
			a.showUser(ctx, args)
		case "addtoken":
			a.addToken(ctx, args)
		case "addevent":
			a.addEvent(ctx, args)
		case "events":
			a.listEvents(ctx, args)
		case "synced":
			a.listSynced(ctx, args)
		case "occurrences":
			a.occurrences(ctx, args)
		case "sync":
			a.syncUser(ctx, args)
		case "syncevent":
			a.syncEvent(ctx, args)
		case "sweep":
			a.sweep(ctx)
		case "enablesync":
			a.setSync(ctx, args, true)
		case "disablesync":
			a.setSync(ctx, args, false)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func (a *App) help() {
	fmt.Println("Available commands:")
	fmt.Println("  adduser                       register a new user")
	fmt.Println("  user <user-id>                show a user")
	fmt.Println("  addtoken <user-id>            store a Google refresh token")
	fmt.Println("  addevent <user-id>            create a recurring event")
	fmt.Println("  events <user-id>              list a user's events")
	fmt.Println("  synced <event-id>             list occurrences already in the calendar")
	fmt.Println("  occurrences <user-id> <from> <to>")
	fmt.Println("                                project occurrences, dates as 2006-01-02")
	fmt.Println("  sync <user-id>                catch up every event of a user")
	fmt.Println("  syncevent <event-id> [year ...]")
	fmt.Println("                                sync one event, whole backlog when no years given")
	fmt.Println("  sweep                         run one scheduler sweep over all eligible users")
	fmt.Println("  enablesync <user-id>          include the user in scheduled sweeps")
	fmt.Println("  disablesync <user-id>         exclude the user from scheduled sweeps")
	fmt.Println("  exit                          leave the console")
}
