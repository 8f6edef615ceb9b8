// aggregen validates aggregate schemas and prints the resolved member
// paths templates consume.
//
//	aggregen check schema.yaml
//	aggregen inspect schema.yaml --aggregate Order
//	aggregen paths schema.yaml --entry Order --policy display
//	aggregen generate schema.yaml --out internal/paths
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// App holds the dependencies shared by every command.
type App struct {
	Logger      *log.Logger
	Out         io.Writer
	ParentField string
}

// Command is the command line of aggregen.
type Command struct {
	Verbose     bool            `help:"Enable debug logging." short:"v"`
	ParentField string          `help:"Name of the child-to-parent path segment." default:"parent"`
	Check       CheckCommand    `cmd:"" help:"Validate a schema file."`
	Inspect     InspectCommand  `cmd:"" help:"Print the aggregates, members and keys of a schema."`
	Paths       PathsCommand    `cmd:"" help:"Print the resolved member paths from an entry aggregate."`
	Generate    GenerateCommand `cmd:"" help:"Write the resolved member paths as Go source."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("aggregen"),
		kong.Description("Aggregate graph and path resolution"),
		kong.UsageOnError(),
	)
	err := ctx.Run(newApp(os.Stdout, os.Stderr, command))
	ctx.FatalIfErrorf(err)
}

func newApp(out, errOut io.Writer, command *Command) *App {
	level := log.InfoLevel
	if command.Verbose {
		level = log.DebugLevel
	}
	return &App{
		Logger: log.NewWithOptions(errOut, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Prefix:          "aggregen",
		}),
		Out:         out,
		ParentField: command.ParentField,
	}
}
