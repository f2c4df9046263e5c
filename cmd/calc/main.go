// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Command calc is the calculator CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"nickandperla.net/calc/internal/logger"
	"nickandperla.net/calc/pkg/calc"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		evalStr  = fs.String("e", "", "Evaluate expression")
		file     = fs.String("f", "", "Evaluate each line of file")
		storeF   = fs.String("store", "memory", "Evaluation log: memory or sqlite")
		logLevel = fs.String("log-level", "none", "Log level: debug, info, warn, error or none")
		logFile  = fs.String("log-file", "", "Log file path (default stderr)")
		noBanner = fs.Bool("no-banner", false, "Do not print the REPL banner")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level, ok := logger.ParseLevel(*logLevel)
	if !ok {
		fmt.Fprintf(stderr, "Unknown log level: %s\n", *logLevel)
		return 2
	}
	log, closer, err := logger.Open(*logFile, level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	opts := []calc.Option{calc.WithLogger(log)}
	switch *storeF {
	case "memory":
		opts = append(opts, calc.WithMemoryStore())
	case "sqlite":
		opts = append(opts, calc.WithSQLiteStore())
	default:
		fmt.Fprintf(stderr, "Unknown store: %s (use memory or sqlite)\n", *storeF)
		return 2
	}

	runtime := calc.New(opts...)
	defer runtime.Close()

	switch {
	case *evalStr != "":
		return report([]calc.Result{runtime.Submit(*evalStr)}, stdout, stderr)

	case *file != "":
		results, err := runtime.EvalFile(*file)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading file: %v\n", err)
			return 1
		}
		return report(results, stdout, stderr)

	case !isTerminal(stdin):
		results, err := runtime.EvalReader(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", err)
			return 1
		}
		return report(results, stdout, stderr)
	}

	runREPL(runtime, stdin.(*os.File), stdout, !*noBanner)
	return 0
}

// report prints successes to stdout and failures to stderr. It returns 1 if
// any result failed.
func report(results []calc.Result, stdout, stderr io.Writer) int {
	status := 0
	for _, res := range results {
		if res.OK() {
			fmt.Fprintln(stdout, res)
			continue
		}
		fmt.Fprintf(stderr, "error: %s\n", res)
		status = 1
	}
	return status
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
