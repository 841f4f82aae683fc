// Package internal holds process-wide startup for the mctools commands.
package internal

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/posener/complete"
	"within.website/x/flagenv"
)

// EnvPrefix is prepended to upper-cased flag names to form the environment
// variables flagenv reads, e.g. MCTOOLS_LOG_LEVEL for -log-level.
const EnvPrefix = "MCTOOLS_"

var (
	showLicenses = flag.Bool("licenses", false, "print the licenses of this program and exit")
	showVersion  = flag.Bool("version", false, "print the version and exit")
	logFile      = flag.String("log-file", "mctools.log", "file logs are written to (the terminal belongs to the dashboard)")
	logLevel     = flag.String("log-level", "info", "minimum log level: debug, info, warn or error")
)

// Predictors overrides shell completion for individual flags, keyed by flag
// name without the dash. Flags not listed complete to anything.
var Predictors = map[string]complete.Predictor{}

// HandleStartup loads .env, answers shell completion, parses flags from
// the environment and the command line and installs the default logger.
// It exits the process for -licenses, -version and completion requests.
func HandleStartup() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "can't load .env: %v\n", err)
	}

	cmp := completion(filepath.Base(os.Args[0]))
	cmp.AddFlags(nil)
	if os.Getenv("COMP_LINE") != "" {
		cmp.Complete()
		os.Exit(0)
	}

	if err := flagenv.ParseSet(EnvPrefix, flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "can't read flags from environment: %v\n", err)
		os.Exit(2)
	}
	flag.Parse()

	if cmp.Complete() {
		os.Exit(0)
	}

	if *showVersion {
		fmt.Println(ReadBuild())
		os.Exit(0)
	}

	if *showLicenses {
		WriteLicenses(os.Stdout)
		os.Exit(0)
	}

	if err := setupLogging(*logFile, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "can't set up logging: %v\n", err)
		os.Exit(1)
	}
}

func completion(name string) *complete.Complete {
	flags := complete.Flags{}
	flag.VisitAll(func(f *flag.Flag) {
		p, ok := Predictors[f.Name]
		if !ok {
			p = complete.PredictAnything
			if bf, isBool := f.Value.(interface{ IsBoolFlag() bool }); isBool && bf.IsBoolFlag() {
				p = complete.PredictNothing
			}
		}
		flags["-"+f.Name] = p
	})
	return complete.New(name, complete.Command{Flags: flags})
}
