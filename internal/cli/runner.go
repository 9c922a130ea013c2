package cli

import (
	"fmt"
	"os"

	"github.com/idilsaglam/tripmap/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Theme   string // overrides TRIPMAP_THEME
	DataDir string // defaults to ~/.tripmap
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "types":
		return doTypes()
	case "ui", "search", "add", "edit", "map", "auth":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(os.Stderr)
		PrintHelp()
		return 2
	}

	app, err := newApp(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer app.Close()

	switch cmd {
	case "ui":
		return app.doUI(a)
	case "search":
		return app.doSearch(a)
	case "add":
		return app.doAdd(a)
	case "edit":
		return app.doEdit(a)
	case "map":
		return app.doMap(a)
	default:
		return app.doAuth(a)
	}
}

func PrintHelp() {
	fmt.Printf(`tripmap - search, pick and save places for a travel group

Usage:
  tripmap [-theme name] [-no-color] <subcommand> [args]

Subcommands:
  ui [-mode m] [-type T] [query...]          Interactive search/pick/submit screen
  search [-mode m] [-page n] [-local] <q...> Search places and print the results
  add -pick n -type T [-desc d] <q...>       Search, pick result n and save it to the group
  edit [-link id] -nickname n -type T        Update a saved place link
  map                                        Show the group's saved places
  auth login|logout|status                   Manage the backend session
  types                                      List place types

Modes: name (default), address.

Examples:
  tripmap search "N Seoul Tower"
  tripmap search -mode address "Namsangongwon-gil 105"
  tripmap add -pick 1 -type ATTRACTION "N Seoul Tower"
  tripmap edit -link 7 -nickname "Tower" -type ATTRACTION
`)
}
