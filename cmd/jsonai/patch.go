package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/mutate"
)

var (
	patchFile   string
	patchDryRun bool
	patchOutput string
)

func init() {
	patchCmd.Flags().StringVarP(&patchFile, "patch", "p", "", "RFC 6902 patch document file, or - for stdin (required)")
	patchCmd.Flags().BoolVar(&patchDryRun, "dry-run", false, "print the result instead of writing the file")
	patchCmd.Flags().StringVarP(&patchOutput, "output", "o", "", "write the result to an alternate file")
	rootCmd.AddCommand(patchCmd)
}

var patchCmd = &cobra.Command{
	Use:   "patch -p <PATCHFILE|-> <FILE>",
	Short: "Apply an RFC 6902 JSON Patch document",
	Args:  cobra.ExactArgs(1),
	RunE:  runPatch,
}

func runPatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	if patchFile == "" {
		return apperr.New(apperr.KindUsage, "patch requires -p/--patch")
	}

	ops, err := loadPatchOps(patchFile)
	if err != nil {
		return err
	}

	root, err := mustOpenSingleFile(file)
	if err != nil {
		return err
	}

	out, err := mutate.Patch(root, ops)
	if err != nil {
		return err
	}
	return finishMutation(out, file, patchDryRun, patchOutput)
}

func loadPatchOps(spec string) ([]mutate.Op, error) {
	var data []byte
	var err error
	if spec == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(spec)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInput, err, "reading patch document %s", spec)
	}

	doc, _, err := jsonvalue.Parse(data, spec)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindParse, err, "parsing patch document")
	}
	if doc.Kind != jsonvalue.KindArray {
		return nil, apperr.New(apperr.KindParse, "patch document must be a JSON array of operations")
	}

	ops := make([]mutate.Op, len(doc.Arr))
	for i, opVal := range doc.Arr {
		op, err := decodeOp(opVal)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindParse, err, "patch op %d", i)
		}
		ops[i] = op
	}
	return ops, nil
}

func decodeOp(v *jsonvalue.Value) (mutate.Op, error) {
	if v.Kind != jsonvalue.KindObject {
		return mutate.Op{}, apperr.New(apperr.KindParse, "patch op must be an object")
	}
	op := mutate.Op{}
	if opName, ok := v.Obj.Get("op"); ok {
		op.Op = opName.Str
	}
	if path, ok := v.Obj.Get("path"); ok {
		op.Path = path.Str
	}
	if from, ok := v.Obj.Get("from"); ok {
		op.From = from.Str
	}
	if val, ok := v.Obj.Get("value"); ok {
		op.Value = val
	}
	if op.Op == "" {
		return mutate.Op{}, apperr.New(apperr.KindParse, "patch op missing \"op\" field")
	}
	return op, nil
}
