// Package cli implements a small interactive client for the authd HTTP API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"
)

type App struct {
	baseURL string
	client  *http.Client
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(baseURL string) (*App, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &App{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Jar: jar},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {

	fmt.Fprintln(a.out, "Commands: register, login, profile, logout, reset, quit")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cmd, err := GetSimpleText(a.reader, "Enter command", a.out)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return
		}

		switch cmd {
		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "profile":
			a.Profile(ctx)
		case "logout":
			a.Logout(ctx)
		case "reset":
			a.ResetPassword(ctx)
		case "quit", "exit":
			return
		case "":
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}
