/*
Cbserver starts a cmdblock server and begins listening for new connections.

Usage:

	cbserver [flags]
	cbserver [flags] -l [[ADDRESS]:PORT]

Once started, the cmdblock server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var or config
file). The flag argument must be either a full address with port, such as
"192.168.0.2:6001", or just the port preceeded by a colon, such as ":6001".

Settings are read from the config file first, then from environment variables,
then from flags; each one overrides the last.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. The same goes for the operator secret, which is
printed to the log when generated so that a token can be requested with it.

The flags are:

	-v, --version
		Give the current version of the cmdblock server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. If not given, will default to
		the value of environment variable CMDBLOCK_CONFIG. If neither is set,
		no file is read.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		CMDBLOCK_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable CMDBLOCK_TOKEN_SECRET.

	-o, --operator-secret SECRET
		The secret the operator gives to POST /api/v1/tokens to be issued a
		token. If not given, will default to the value of environment variable
		CMDBLOCK_OPERATOR_SECRET.

	-w, --scenario FILE
		Build the world from the given CBW resource file.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable CMDBLOCK_DATABASE. If no DB driver
		is specified, an in-memory database is automatically selected.

	--log-level LEVEL
		Log at the given level. One of debug, info, warn, or error.

	--json-log
		Write log lines as JSON.
*/
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dekarrin/cmdblock/internal/logging"
	"github.com/dekarrin/cmdblock/internal/version"
	"github.com/dekarrin/cmdblock/server"
	"github.com/spf13/pflag"
)

const (
	EnvConfig         = "CMDBLOCK_CONFIG"
	EnvListen         = "CMDBLOCK_LISTEN_ADDRESS"
	EnvSecret         = "CMDBLOCK_TOKEN_SECRET"
	EnvOperatorSecret = "CMDBLOCK_OPERATOR_SECRET"
	EnvDB             = "CMDBLOCK_DATABASE"
)

var (
	flagVersion        = pflag.BoolP("version", "v", false, "Give the current version of cmdblock server and then exit.")
	flagConfig         = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen         = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret         = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagOperatorSecret = pflag.StringP("operator-secret", "o", "", "The secret the operator logs in with.")
	flagScenario       = pflag.StringP("scenario", "w", "", "Build the world from the given CBW file.")
	flagDB             = pflag.String("db", "", "Use the given DB connection string.")
	flagLogLevel       = pflag.String("log-level", "", "Log at the given level.")
	flagJSONLog        = pflag.Bool("json-log", false, "Write log lines as JSON.")
)

// setting returns the value of the named flag if it was given, otherwise the
// value of the environment variable env if it is set, otherwise cur.
func setting(flagName, env, cur string) string {
	if f := pflag.Lookup(flagName); f != nil && f.Changed {
		return f.Value.String()
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return cur
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (cmdblock v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	// assemble a server config
	var cfg server.Config
	if cfgPath := setting("config", EnvConfig, ""); cfgPath != "" {
		var err error
		cfg, err = server.LoadConfig(cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}
	}

	cfg.Listen = setting("listen", EnvListen, cfg.Listen)
	cfg.ScenarioPath = setting("scenario", "", cfg.ScenarioPath)
	cfg.LogLevel = setting("log-level", "", cfg.LogLevel)

	if dbConnStr := setting("db", EnvDB, ""); dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}
	log := logging.New(os.Stderr, level)
	if *flagJSONLog {
		log = logging.NewJSON(os.Stderr, level)
	}

	// get token secret
	if tokSecStr := setting("secret", EnvSecret, string(cfg.TokenSecret)); tokSecStr != "" {
		tokSecret := []byte(tokSecStr)

		for len(tokSecret) < server.MinSecretSize {
			doubledTokSecret := make([]byte, len(tokSecret)*2)
			copy(doubledTokSecret, tokSecret)
			copy(doubledTokSecret[len(tokSecret):], tokSecret)
			tokSecret = doubledTokSecret
		}

		cfg.TokenSecret = tokSecret
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			log.Fatal("Could not generate token secret", "error", err)
		}

		// yell at the user bc they should know their secret might be bad
		log.Warn("Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	if opSecStr := setting("operator-secret", EnvOperatorSecret, string(cfg.OperatorSecret)); opSecStr != "" {
		cfg.OperatorSecret = []byte(opSecStr)
	} else {
		opSecret := make([]byte, 16)
		if _, err := rand.Read(opSecret); err != nil {
			log.Fatal("Could not generate operator secret", "error", err)
		}
		cfg.OperatorSecret = []byte(hex.EncodeToString(opSecret))

		log.Warn("Using generated operator secret", "secret", string(cfg.OperatorSecret))
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	// configuration complete, initialize the server
	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal("Could not start server", "error", err)
	}
	log.Debug("Server initialized", "db", cfg.DB.Type, "scenario", cfg.ScenarioPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil {
			log.Error("Shutdown did not complete cleanly", "error", err)
		}
	}()

	// okay, now actually launch it
	log.Info("Starting cmdblock server", "version", version.ServerCurrent)
	if err := srv.ServeForever(); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
	<-closed
	log.Info("Server stopped")
}
