package main

import (
	"github.com/spf13/cobra"

	"jsonai/internal/mutate"
)

var (
	addPointer string
	addDryRun  bool
	addOutput  string
)

func init() {
	addCmd.Flags().StringVarP(&addPointer, "pointer", "p", "", "JSON pointer to insert at (required)")
	addCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "print the result instead of writing the file")
	addCmd.Flags().StringVarP(&addOutput, "output", "o", "", "write the result to an alternate file")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add -p <POINTER> <VALUE> <FILE>",
	Short: "Insert a value at an object key or array index",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	valueArg, file := args[0], args[1]

	p, err := parsePointerArg(addPointer)
	if err != nil {
		return err
	}
	val, err := parseValueArg(valueArg)
	if err != nil {
		return err
	}

	root, err := mustOpenSingleFile(file)
	if err != nil {
		return err
	}

	out, err := mutate.Add(root, p, val)
	if err != nil {
		return err
	}
	return finishMutation(out, file, addDryRun, addOutput)
}
