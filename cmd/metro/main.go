package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
	reportsDir := buildCmd.String("reports-dir", "", "directory to write timings.csv/traceLog.txt/keys-populated-*.txt into")
	debug := buildCmd.Bool("debug", false, "log each graph build and its diagnostics to stderr")
	allowForeign := buildCmd.Bool("allow-foreign-annotations", false, "recognize javax.inject/jakarta.inject/dagger/anvil annotations as aliases of the core markers")

	if len(os.Args) < 2 {
		fmt.Println("expected 'build' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		if err := buildCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println("failed to parse build command")
			os.Exit(1)
		}
		build(os.Stdout, os.Stderr, buildOptions{
			reportsDir:   *reportsDir,
			debug:        *debug,
			allowForeign: *allowForeign,
		})
	default:
		fmt.Println("expected 'build' subcommand")
		os.Exit(1)
	}
}
