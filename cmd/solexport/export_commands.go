package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"

	"github.com/solexport/solexport/client"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a wallet's recent transaction history to a JSON file on the server",
		ArgsUsage: "WALLET_ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "HTTP server URL",
				EnvVars: []string{"SOLEXPORT_SERVER_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Value:   10 * time.Minute,
				Usage:   "How long to wait for the export to finish",
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output the API response as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet address is required")
			}

			address := c.Args().Get(0)
			serverURL := c.String("server")
			timeout := c.Duration("timeout")
			jsonOutput := c.Bool("json")

			httpClient := &http.Client{
				Timeout: timeout,
			}

			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError, // Only errors to stderr
			}))

			cl := client.NewClient(serverURL, httpClient, logger)

			if !jsonOutput {
				fmt.Fprintf(os.Stderr, "Exporting transactions for %s...\n", address)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			result, err := cl.Export(ctx, address)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Println(string(data))
			} else {
				fmt.Printf("Export complete: %s\n", result.FilePath)
			}

			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print an exported transactions file, optionally filtered with a jq expression",
		ArgsUsage: "WALLET_ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"d"},
				Value:   ".",
				Usage:   "Directory containing exported files",
				EnvVars: []string{"OUTPUT_DIR"},
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "jq expression applied to the transaction array (e.g. '.[] | select(.fee > 5000)')",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet address is required")
			}

			address := c.Args().Get(0)
			path := fmt.Sprintf("%s/transactions_%s.json", c.String("output-dir"), address)

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			filter := c.String("filter")
			if filter == "" {
				fmt.Println(string(data))
				return nil
			}

			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			results, err := applyJQFilter(filter, doc)
			if err != nil {
				return err
			}
			for _, result := range results {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Println(string(out))
			}

			return nil
		},
	}
}

// applyJQFilter compiles and runs a jq expression against a decoded JSON
// document, returning all emitted values.
func applyJQFilter(filter string, doc any) ([]any, error) {
	query, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq filter %q: %w", filter, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
	}

	var results []any
	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("jq filter error: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
