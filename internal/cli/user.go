package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) addUser(ctx context.Context) {
	user, err := a.users.CreateUser(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("user created:", user.ID)
}

func (a *App) showUser(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: user <user-id>")
		return
	}

	user, err := a.users.GetUser(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}

	calendar := user.CalendarID
	if calendar == "" {
		calendar = "(not resolved yet)"
	}
	fmt.Println("id:      ", user.ID)
	fmt.Println("calendar:", calendar)
	fmt.Println("sync:    ", user.SyncEnabled)
	fmt.Println("created: ", user.CreatedAt.Format("2006-01-02 15:04:05"))
}

func (a *App) setSync(ctx context.Context, args []string, enabled bool) {
	name := "enablesync"
	if !enabled {
		name = "disablesync"
	}
	if len(args) == 0 {
		fmt.Printf("Usage: %s <user-id>\n", name)
		return
	}

	if err := a.users.SetSyncEnabled(ctx, args[0], enabled); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("sync enabled:", enabled)
}

func (a *App) addToken(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: addtoken <user-id>")
		return
	}

	token, err := GetSecret("Paste refresh token", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(token) == 0 {
		fmt.Println("empty token, nothing stored")
		return
	}

	if err := a.tokens.StoreRefreshToken(ctx, args[0], string(token)); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("refresh token stored")
}
