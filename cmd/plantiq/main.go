package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the top-level command structure.
type CLI struct {
	Config   string `help:"Path to config file" type:"path"`
	LogLevel string `default:"warn" help:"Log level (debug|info|warn|error)"`

	Ask     AskCmd     `cmd:"" help:"Run one query through the assistant"`
	Tools   ToolsCmd   `cmd:"" help:"List the tool catalog"`
	Seed    SeedCmd    `cmd:"" help:"Load the demo dataset into the document store"`
	Log     LogCmd     `cmd:"" help:"Show recent query history"`
	Migrate MigrateCmd `cmd:"" help:"Apply pending audit database migrations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("plantiq"),
		kong.Description("Tool-calling assistant for production orders, purchases and materials"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
