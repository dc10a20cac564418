package main

import (
	"context"
	"fmt"

	"github.com/quorumstor/replictl/internal/api"
	"github.com/quorumstor/replictl/internal/config"
)

func clientOptions() api.Options {
	return api.Options{
		Port:               settings.Port,
		InsecureSkipVerify: settings.Insecure,
	}
}

// connect logs in to one side. Token wins over password; a configured user
// with neither is prompted on the terminal.
func connect(ctx context.Context, side string, conn config.ClusterConn) (*api.Client, error) {
	if conn.Token != "" {
		return api.LoginWithToken(ctx, conn.Host, conn.Token, clientOptions())
	}
	password := conn.Password
	if password == "" {
		pw, err := config.PromptPassword(conn.User, conn.Host)
		if err != nil {
			return nil, fmt.Errorf("%s cluster: %w", side, err)
		}
		password = pw
	}
	return api.Login(ctx, conn.Host, conn.User, password, clientOptions())
}

func connectSource(ctx context.Context) (*api.Client, error) {
	return connect(ctx, "source", settings.Source)
}

func connectDest(ctx context.Context) (*api.Client, error) {
	return connect(ctx, "destination", settings.Dest)
}
