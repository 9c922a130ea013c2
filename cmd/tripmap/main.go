package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/tripmap/internal/cli"
	"github.com/idilsaglam/tripmap/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	theme := flag.String("theme", "", "color theme: classic, neon or mono")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Usage = cli.PrintHelp
	flag.Parse()

	ui.SetColorForcing(false, *noColor)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Theme: *theme,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
