package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mpiekarski/plantiq/src/app"
)

// AskCmd runs a single query through the conversation driver and prints the
// answer.
type AskCmd struct {
	Question []string `arg:"" help:"The question to ask"`
	Verbose  bool     `help:"Print the executed tool log and token usage"`
}

func (c *AskCmd) Run(_ *kong.Context, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	logger := newLogger(cli.LogLevel)
	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	question := strings.Join(c.Question, " ")
	result, err := application.Driver.ProcessQuery(context.Background(), question, nil)
	if err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}
	fmt.Println(result.Response)

	if c.Verbose {
		fmt.Printf("\nrounds: %d, tokens: %d\n", result.Rounds, result.TokensUsed)
		for _, entry := range result.ExecutedTools {
			status := "ok"
			if !entry.Success {
				status = "failed"
			}
			fmt.Printf("  %-28s %6dms  %s\n", entry.Name, entry.DurationMs, status)
		}
	}
	return nil
}
