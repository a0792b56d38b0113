package main

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"jsonai/internal/ingest"
	"jsonai/internal/shred"
)

func init() {
	rootCmd.AddCommand(fieldsCmd)
}

var fieldsCmd = &cobra.Command{
	Use:   "fields <INPUT>",
	Short: "List every leaf field path discoverable across the input's documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

// fieldsResponse reports the leaf field paths a subsequent `search
// --field` or `--schema` could reference.
type fieldsResponse struct {
	Fields []string `json:"fields"`
}

func runFields(cmd *cobra.Command, args []string) error {
	paths, err := ingest.Resolve([]string{args[0]})
	if err != nil {
		return err
	}
	files, err := ingest.Load(paths)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var all []string
	for _, f := range files {
		records := shred.Shred(f.Root, f.Path)
		for _, leaf := range shred.LeafPaths(records) {
			if !seen[leaf] {
				seen[leaf] = true
				all = append(all, leaf)
			}
		}
	}
	sort.Strings(all)

	resp := fieldsResponse{Fields: all}
	var data []byte
	if wantPretty() {
		data, err = json.MarshalIndent(resp, "", "  ")
	} else {
		data, err = json.Marshal(resp)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
