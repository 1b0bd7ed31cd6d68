package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/carblock/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend server (default from Config)
//	-u string   proxy basic-auth user
//	-p string   proxy basic-auth password
//	-f string   session file path
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-p", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.ProxyUser, "u", cfg.ProxyUser, "proxy basic-auth user")
	fs.StringVar(&cfg.ProxyPassword, "p", cfg.ProxyPassword, "proxy basic-auth password")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "session file path")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
