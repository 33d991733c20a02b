/*
Cbi starts an interactive cmdblock console.

It reads in a scenario file to build the world and then reads command lines
from stdin, running each one as the console player and printing every message
shown to stdout, until input ends or "quit" is typed.

Usage:

	cbi [flags]

The flags are:

	-v, --version
		Give the current version of cmdblock and then exit.

	-w, --scenario FILE
		Use the provided CBW resource file for the world. If not given, the
		world starts empty with only the console player in it.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

	--db DRIVER[:PARAMS]
		Keep named points and command history in the given DB. DRIVER must be
		one of inmem or sqlite; sqlite needs the path to the data directory,
		such as sqlite:path/to/db_dir. Defaults to inmem.

	--log-level LEVEL
		Log at the given level to stderr. One of debug, info, warn, or error.
		Defaults to warn.

Once a session has started, type "help" for a list of commands, or "?"
followed by part of a command line to see what could be typed next.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/cmdblock"
	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/version"
	"github.com/dekarrin/cmdblock/server"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitConsoleError indicates an unsuccessful program execution due to a
	// problem while reading or running commands.
	ExitConsoleError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode   int = ExitSuccess
	flagVersion      = pflag.BoolP("version", "v", false, "Give the current version of cmdblock and then exit.")
	flagScenario     = pflag.StringP("scenario", "w", "", "The CBW scenario data or manifest file that defines the world.")
	flagDirect       = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagDB           = pflag.String("db", "inmem", "Keep named points and history in the given DB.")
	flagLogLevel     = pflag.String("log-level", "warn", "Log at the given level to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic("unrecoverable panic occured")
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	level, err := logging.ParseLevel(*flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	log := logging.New(os.Stderr, level)

	dbCfg, err := server.ParseDBConnString(*flagDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: --db: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	store, err := dbCfg.Connect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer store.Close()

	eng, initErr := cmdblock.New(os.Stdin, os.Stdout, *flagScenario, store, log, *flagDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err = eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitConsoleError
		return
	}
}
