package main

import (
	"github.com/spf13/cobra"

	"jsonai/internal/mutate"
)

var (
	deletePointer string
	deleteDryRun  bool
	deleteOutput  string
)

func init() {
	deleteCmd.Flags().StringVarP(&deletePointer, "pointer", "p", "", "JSON pointer to remove (required)")
	deleteCmd.Flags().BoolVar(&deleteDryRun, "dry-run", false, "print the result instead of writing the file")
	deleteCmd.Flags().StringVarP(&deleteOutput, "output", "o", "", "write the result to an alternate file")
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete -p <POINTER> <FILE>",
	Short: "Remove the value at an existing pointer",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	file := args[0]

	p, err := parsePointerArg(deletePointer)
	if err != nil {
		return err
	}

	root, err := mustOpenSingleFile(file)
	if err != nil {
		return err
	}

	out, err := mutate.Delete(root, p)
	if err != nil {
		return err
	}
	return finishMutation(out, file, deleteDryRun, deleteOutput)
}
