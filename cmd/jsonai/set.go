package main

import (
	"github.com/spf13/cobra"

	"jsonai/internal/mutate"
)

var (
	setPointer string
	setDryRun  bool
	setOutput  string
)

func init() {
	setCmd.Flags().StringVarP(&setPointer, "pointer", "p", "", "JSON pointer to the target value (required)")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "print the result instead of writing the file")
	setCmd.Flags().StringVarP(&setOutput, "output", "o", "", "write the result to an alternate file")
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set -p <POINTER> <VALUE> <FILE>",
	Short: "Replace the value at an existing pointer",
	Args:  cobra.ExactArgs(2),
	RunE:  runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	valueArg, file := args[0], args[1]

	p, err := parsePointerArg(setPointer)
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

	out, err := mutate.Set(root, p, val)
	if err != nil {
		return err
	}
	return finishMutation(out, file, setDryRun, setOutput)
}
