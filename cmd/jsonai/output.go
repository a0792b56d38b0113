package main

import (
	"encoding/json"
	"os"

	"jsonai/internal/format"
	"jsonai/internal/overflow"
	"jsonai/internal/search"
)

// writeFormatted runs internal/format.Format and writes the result to
// stdout, mapping a zero-hit search to exit 1 while still emitting the
// (valid, empty) envelope on stdout.
func writeFormatted(hits []search.Hit, totalMatched int, opts format.Options) error {
	data, err := format.Format(hits, totalMatched, opts)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return err
	}
	if _, err := os.Stdout.Write([]byte("\n")); err != nil {
		return err
	}
	return nil
}

// writePlan emits an overflow plan response in place of result
// records. A plan is never a no-match condition even
// when totalMatched happens to be large, so callers don't treat it as
// an error exit.
func writePlan(plan overflow.Plan, totalMatched int) error {
	var data []byte
	var err error
	if wantPretty() {
		data, err = json.MarshalIndent(plan, "", "  ")
	} else {
		data, err = json.Marshal(plan)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
