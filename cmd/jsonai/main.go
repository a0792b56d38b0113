// Package main provides the jsonai CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"jsonai/internal/apperr"
)

func main() {
	// SIGINT aborts the invocation with exit 2. A mutation interrupted
	// mid-write never reaches its rename, so the target is not touched.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		<-interrupts
		printErr(errors.New("interrupted"))
		os.Exit(ExitError)
	}()

	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "jsonai",
	Short: "Searchable, structurally navigable access to JSON documents for agents",
	Long: `jsonai turns arbitrary JSON documents into a searchable, structurally
navigable dataset. It answers "which objects in this data match a query?"
and "how should I structurally modify this document?", returning compact,
token-efficient JSON on stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	prettyFlag  bool
	compactFlag bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&prettyFlag, "pretty", false, "pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVar(&compactFlag, "compact", false, "compact JSON output (default)")
}

// wantPretty resolves the --pretty/--compact pair, --compact winning
// on an explicit conflict since it's the documented default.
func wantPretty() bool {
	if compactFlag {
		return false
	}
	return prettyFlag
}

func exitCodeFor(err error) int {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindNoMatch {
			return ExitNoMatch
		}
		return apperr.ExitCode(ae.Kind)
	}
	return ExitError
}

func printErr(err error) {
	fmt.Fprintf(os.Stderr, "jsonai: %v\n", err)
}
