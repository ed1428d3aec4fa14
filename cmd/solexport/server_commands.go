package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/solexport/solexport/client"
)

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check server health",
		Action: func(c *cli.Context) error {
			serverURL := c.String("server-url")

			httpClient := &http.Client{Timeout: 5 * time.Second}
			cl := client.NewClient(serverURL, httpClient, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := cl.Health(ctx); err != nil {
				return fmt.Errorf("server unhealthy: %w", err)
			}

			fmt.Println("OK")
			return nil
		},
	}
}
