package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/nexusauth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   listen address (e.g., ":8080")
//	-p string   endpoint path
//	-s string   store backend: file, memory, sqlite, postgres
//	-f string   users JSON file (file backend)
//	-d string   database DSN (sqlite, postgres)
//	-l string   log level: debug, info, warn, error
//	-r float    rate limit, requests per second per IP (0 disables)
//	-b int      rate limit burst
//	-v bool     require a verified email before login (-v or -v=false)
//	-m string   SMTP host
//	-o int      SMTP port
//	-u string   SMTP user
//	-w string   SMTP password
//	-e string   sender email address
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-p", "-s", "-f", "-d", "-l", "-r", "-b", "-v", "-m", "-o", "-u", "-w", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.Path, "p", config.Path, "auth endpoint path")
	fs.StringVar(&config.Store, "s", config.Store, "store backend (file|memory|sqlite|postgres)")
	fs.StringVar(&config.UsersFile, "f", config.UsersFile, "users JSON file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.Float64Var(&config.RateRPS, "r", config.RateRPS, "requests per second per IP")
	fs.IntVar(&config.RateBurst, "b", config.RateBurst, "rate limit burst")
	fs.BoolVar(&config.RequireVerified, "v", config.RequireVerified, "require verified email for login")
	fs.StringVar(&config.SMTPHost, "m", config.SMTPHost, "SMTP host")
	fs.IntVar(&config.SMTPPort, "o", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUser, "u", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "w", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.SMTPFrom, "e", config.SMTPFrom, "sender email")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
