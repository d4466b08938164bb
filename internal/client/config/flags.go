package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/plantdetector/internal/flagx"
)

// flagOutput receives usage text and parse errors.
var flagOutput io.Writer = os.Stderr

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the detector API
//	-d string   path of the local database file
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//	-l string   log level
//	-h          print usage
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i", "-l", "-h", "-help"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(flagOutput)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the detector API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// durations from the file may be sub-second; only explicit flags replace them
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
	return nil
}
