package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joy-dx/gosession"
)

func dispatch(ctx context.Context, svc *gosession.SessionSvc, command string, args []string, out io.Writer) error {
	switch command {
	case "login":
		return login(ctx, svc, args, out)
	case "logout":
		svc.Logout(ctx)
		fmt.Fprintln(out, "logged out")
		return nil
	case "refresh":
		if !svc.Refresh(ctx) {
			return errors.New("refresh failed, run login")
		}
		fmt.Fprintln(out, "session refreshed")
		return nil
	case "status":
		return printJSON(out, svc.State(ctx))
	case "get":
		if len(args) != 1 {
			return errors.New("usage: get <endpoint>")
		}
		resp, err := svc.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if !resp.OK() {
			return fmt.Errorf("HTTP error! status: %d: %s", resp.StatusCode, resp.Body)
		}
		_, err = out.Write(append(resp.Body, '\n'))
		return err
	case "accounts":
		accounts, err := svc.Services().Accounts.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, accounts)
	case "categories":
		categories, err := svc.Services().Categories.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, categories)
	case "transactions":
		fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		parents := fs.Bool("parents", false, "only parent transactions")
		if err := fs.Parse(args); err != nil {
			return err
		}
		transactions, err := svc.Services().Transactions.List(ctx, *parents)
		if err != nil {
			return err
		}
		return printJSON(out, transactions)
	case "profile":
		user, err := svc.Services().Users.Profile(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, user)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func login(ctx context.Context, svc *gosession.SessionSvc, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: login <username> [password]")
	}
	password := os.Getenv("GOSESSION_PASSWORD")
	if len(args) == 2 {
		password = args[1]
	}
	if password == "" {
		return errors.New("no password given, pass it or set GOSESSION_PASSWORD")
	}
	if _, err := svc.Login(ctx, args[0], password); err != nil {
		return err
	}
	state := svc.State(ctx)
	fmt.Fprintf(out, "logged in, session valid until %s (%s store)\n", state.ExpiresAt.Local().Format("2006-01-02 15:04:05"), state.Backend)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
