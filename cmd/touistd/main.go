/*
Touistd starts the touist compiler as an HTTP service and begins listening
for new connections.

Usage:

	touistd [flags]
	touistd [flags] -l [[ADDRESS]:PORT]

Once started, touistd will listen for HTTP requests and respond to them
using REST protocol, compiling submitted programs and returning DIMACS or
SMT-LIB2 clause sets. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var).

If a JWT token secret is not given, one will be automatically generated and
seeded from a CSPRNG. As a consequence, in this mode of operation all tokens
are rendered invalid as soon as the server shuts down. This is suitable for
testing, but must be given via either CLI flags or environment variable if
running in production.

The flags are:

	-v, --version
		Give the current version of touistd and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable TOUISTD_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less
		than 32 bytes in the secret, it will be repeated until it is. The
		maximum size is 64 bytes. If not given, will default to the value of
		environment variable TOUISTD_TOKEN_SECRET. If no secret is specified
		or an empty secret is given, a random secret will be automatically
		generated. Note that any tokens issued with a random secret will
		become invalid as soon as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the
		following: inmem, sqlite. inmem has no further params. sqlite needs
		the path to the data directory, such as sqlite:path/to/db_dir. If not
		given, will default to the value of environment variable
		TOUISTD_DATABASE. If no DB driver is specified or an empty one is
		given, an in-memory database is automatically selected.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/touist-lang/touist/internal/version"
	"github.com/touist-lang/touist/server"
	"github.com/touist-lang/touist/server/dao"
	"github.com/touist-lang/touist/server/serr"
)

const (
	EnvListen = "TOUISTD_LISTEN_ADDRESS"
	EnvSecret = "TOUISTD_TOKEN_SECRET"
	EnvDB     = "TOUISTD_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of touistd and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (touist v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	addr, port := parseListenAddr()

	var cfg server.Config

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	cfg.TokenSecret = parseTokenSecret()

	touistd, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	_, err = touistd.Backend.CreateAccount(context.Background(), "admin", "password", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin account: %v", err)
		os.Exit(2)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin account with password 'password'...")
	}

	log.Printf("INFO  Starting touistd %s on %s:%d...", version.ServerCurrent, addr, port)
	if err := touistd.ListenAndServe(addr, port); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func parseListenAddr() (addr string, port int) {
	port = 8080
	addr = "localhost"

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return addr, port
	}

	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	var err error
	addr = bindParts[0]
	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
		os.Exit(1)
	}

	return addr, port
}

func parseTokenSecret() []byte {
	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	if tokSecStr == "" {
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return tokSecret
	}

	tokSecret := []byte(tokSecStr)
	for len(tokSecret) < server.MinSecretSize {
		tokSecret = append(tokSecret, tokSecret...)
	}
	if len(tokSecret) > server.MaxSecretSize {
		fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
		os.Exit(1)
	}

	return tokSecret
}
