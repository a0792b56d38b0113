package mutate

import (
	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/pointer"
)

// Op is one RFC 6902 patch operation.
type Op struct {
	Op    string // test, add, remove, replace, move, copy
	Path  string
	From  string
	Value *jsonvalue.Value
}

// Patch applies ops in order against root, returning a new root. A
// failing test op (or any other op error) aborts the whole patch: the
// caller's root is never touched, since every step below operates on
// a clone and the clone is only returned on full success.
func Patch(root *jsonvalue.Value, ops []Op) (*jsonvalue.Value, error) {
	current := root.Clone()
	for i, op := range ops {
		next, err := applyOp(current, op)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindOf(err), err, "patch op %d (%s %s)", i, op.Op, op.Path)
		}
		current = next
	}
	return current, nil
}

func applyOp(root *jsonvalue.Value, op Op) (*jsonvalue.Value, error) {
	path, err := pointer.Decode(op.Path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "invalid path %q", op.Path)
	}

	switch op.Op {
	case "test":
		actual, err := pointer.Navigate(root, path)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPatchTestFailed, err, "test target %q not found", op.Path)
		}
		if !actual.Equal(op.Value) {
			return nil, apperr.New(apperr.KindPatchTestFailed, "test failed at %q", op.Path)
		}
		return root, nil

	case "add":
		return Add(root, path, op.Value)

	case "remove":
		return Delete(root, path)

	case "replace":
		if _, err := pointer.Navigate(root, path); err != nil {
			return nil, apperr.Wrap(apperr.KindPointer, err, "replace target %q not found", op.Path)
		}
		return Set(root, path, op.Value)

	case "move":
		fromPath, err := pointer.Decode(op.From)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPointer, err, "invalid from %q", op.From)
		}
		val, err := pointer.Navigate(root, fromPath)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPointer, err, "move source %q not found", op.From)
		}
		moved := val.Clone()
		afterRemove, err := Delete(root, fromPath)
		if err != nil {
			return nil, err
		}
		return Add(afterRemove, path, moved)

	case "copy":
		fromPath, err := pointer.Decode(op.From)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPointer, err, "invalid from %q", op.From)
		}
		val, err := pointer.Navigate(root, fromPath)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPointer, err, "copy source %q not found", op.From)
		}
		return Add(root, path, val.Clone())

	default:
		return nil, apperr.New(apperr.KindUsage, "unknown patch op %q", op.Op)
	}
}
