package config

import (
	"flag"
	"os"

	"github.com/hebsync/hebsync/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string     PostgreSQL DSN
//	-n string     external calendar name
//	-k string     token vault key
//	-g string     Google OAuth client id
//	-s string     Google OAuth client secret
//	-i duration   sync interval (e.g., "24h")
//	-b int        sync batch size
//	-p duration   pause between sync batches (e.g., "1s")
//	-e            enable background sync (use -e=false to disable)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Retry-policy and cache-size parameters are JSON-only.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-k", "-g", "-s", "-i", "-b", "-p", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.CalendarName, "n", config.CalendarName, "external calendar name")
	fs.StringVar(&config.TokenKey, "k", config.TokenKey, "token vault key")
	fs.StringVar(&config.GoogleClientID, "g", config.GoogleClientID, "google oauth client id")
	fs.StringVar(&config.GoogleClientSecret, "s", config.GoogleClientSecret, "google oauth client secret")
	fs.DurationVar(&config.SyncInterval, "i", config.SyncInterval, "sync interval")
	fs.IntVar(&config.SyncBatchSize, "b", config.SyncBatchSize, "sync batch size")
	fs.DurationVar(&config.SyncBatchPause, "p", config.SyncBatchPause, "pause between sync batches")
	fs.BoolVar(&config.SyncEnabled, "e", config.SyncEnabled, "enable background sync")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
