package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
)

type options struct {
	configPath  string
	baseURL     string
	backend     string
	sessionFile string
	logLevel    string
	pretty      bool
	metrics     bool
	headers     dto.ExtraHeaders

	command string
	args    []string
}

var commands = map[string]string{
	"login":        "login <username> [password]   password falls back to GOSESSION_PASSWORD",
	"logout":       "logout                        clear the stored session",
	"refresh":      "refresh                       renew the access token now",
	"status":       "status                        print the session state as JSON",
	"get":          "get <endpoint>                authenticated GET, prints the raw body",
	"accounts":     "accounts                      list accounts",
	"categories":   "categories                    list categories",
	"transactions": "transactions [-parents]       list transactions",
	"profile":      "profile                       show the logged in user",
}

func parseOptions(args []string) (options, error) {
	opts := options{headers: make(dto.ExtraHeaders)}

	fs := flag.NewFlagSet("gosession", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.baseURL, "base-url", "", "API base URL (or GOSESSION_API_BASE_URL)")
	fs.StringVar(&opts.backend, "backend", "", "session store: memory, file, redis, s3 (default file)")
	fs.StringVar(&opts.sessionFile, "session-file", "", "session file for the file backend")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error")
	fs.BoolVar(&opts.pretty, "pretty", false, "human readable logs")
	fs.BoolVar(&opts.metrics, "metrics", false, "print prometheus metrics on exit")
	fs.Var(opts.headers, "header", "extra request header key=value, repeatable")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return options{}, errors.New("no command given")
	}
	opts.command, opts.args = rest[0], rest[1:]
	if _, ok := commands[opts.command]; !ok {
		return options{}, fmt.Errorf("unknown command %q", opts.command)
	}
	return opts, nil
}

// apply lets flags win over file and env. A one-shot process has nothing to
// keep a memory store alive, so memory becomes file unless asked for.
func (o options) apply(cfg *config.SessionSvcConfig) {
	if o.baseURL != "" {
		cfg.WithBaseURL(o.baseURL)
	}
	switch {
	case o.backend != "":
		cfg.WithStoreBackend(o.backend)
	case cfg.Store.Backend == config.BackendMemory:
		cfg.WithStoreBackend(config.BackendFile)
	}
	if o.sessionFile != "" {
		cfg.Store.FilePath = o.sessionFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.pretty {
		cfg.Log.Pretty = true
	}
	if o.metrics {
		cfg.Metrics.Enable = true
	}
	if len(o.headers) > 0 {
		if cfg.API.ExtraHeaders == nil {
			cfg.API.ExtraHeaders = make(dto.ExtraHeaders)
		}
		for k, v := range o.headers {
			cfg.API.ExtraHeaders[k] = v
		}
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: gosession [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	for _, name := range []string{"login", "logout", "refresh", "status", "get", "accounts", "categories", "transactions", "profile"} {
		fmt.Fprintln(w, "  "+commands[name])
	}
	fmt.Fprintln(w, "\nflags:")
	fmt.Fprintln(w, "  "+strings.Join([]string{
		"-config", "-base-url", "-backend", "-session-file", "-header k=v", "-log-level", "-pretty", "-metrics",
	}, " "))
}
