package main

import (
	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/mutate"
	"jsonai/internal/pointer"
)

// finishMutation writes root back to inputPath (or to outPath when
// --output is set), honoring --dry-run.
func finishMutation(root *jsonvalue.Value, inputPath string, dryRun bool, outPath string) error {
	dest := inputPath
	if outPath != "" {
		dest = outPath
	}
	return mutate.Write(root, dest, dryRun, wantPretty())
}

// parseValueArg decodes a CLI-supplied JSON literal: <VALUE> for
// mutation commands is a JSON literal, not a bare string.
func parseValueArg(s string) (*jsonvalue.Value, error) {
	v, _, err := jsonvalue.Parse([]byte(s), "<value>")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindParse, err, "parsing value argument")
	}
	return v, nil
}

func parsePointerArg(s string) (pointer.Pointer, error) {
	p, err := pointer.Decode(s)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "parsing pointer %q", s)
	}
	return p, nil
}
