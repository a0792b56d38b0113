// Package mutate implements the four structural mutation operations:
// set, add, delete, and RFC 6902 patch. Every operation
// is a pure function over a cloned tree -- the caller's root is never
// touched, so a failing operation leaves the input file (and the
// caller's in-memory value) byte-for-byte unchanged.
package mutate

import (
	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/pointer"
)

// Set replaces the value at p with val, returning a new root. p must
// point to an existing value of any kind.
func Set(root *jsonvalue.Value, p pointer.Pointer, val *jsonvalue.Value) (*jsonvalue.Value, error) {
	clone := root.Clone()
	parent, lastToken, ok := p.Parent()
	if !ok {
		return val, nil
	}
	container, err := pointer.Navigate(clone, parent)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "resolving parent of %q", p.String())
	}
	if err := setChild(container, lastToken, val, false); err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "setting %q", p.String())
	}
	return clone, nil
}

// Add inserts val at p. For an object, the key is created or
// overwritten. For an array, p's last token must be an index in
// [0, len] or the "-" append sentinel; insertion shifts the tail.
func Add(root *jsonvalue.Value, p pointer.Pointer, val *jsonvalue.Value) (*jsonvalue.Value, error) {
	clone := root.Clone()
	parent, lastToken, ok := p.Parent()
	if !ok {
		return val, nil
	}
	container, err := pointer.Navigate(clone, parent)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "resolving parent of %q", p.String())
	}
	if err := setChild(container, lastToken, val, true); err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "adding at %q", p.String())
	}
	return clone, nil
}

// Delete removes the value at p, returning a new root. p must point
// to an existing value; array removal shifts the tail.
func Delete(root *jsonvalue.Value, p pointer.Pointer) (*jsonvalue.Value, error) {
	clone := root.Clone()
	parent, lastToken, ok := p.Parent()
	if !ok {
		return nil, apperr.New(apperr.KindPointer, "cannot delete the document root")
	}
	container, err := pointer.Navigate(clone, parent)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPointer, err, "resolving parent of %q", p.String())
	}
	if err := deleteChild(container, lastToken, p); err != nil {
		return nil, err
	}
	return clone, nil
}

func setChild(container *jsonvalue.Value, t pointer.Token, val *jsonvalue.Value, forAdd bool) error {
	switch container.Kind {
	case jsonvalue.KindObject:
		if t.Kind != pointer.KindKey {
			return apperr.New(apperr.KindPointer, "cannot use array token on an object")
		}
		if !forAdd {
			if _, ok := container.Obj.Get(t.Key); !ok {
				return apperr.New(apperr.KindPointer, "key %q not found", t.Key)
			}
		}
		container.Obj.Set(t.Key, val)
		return nil
	case jsonvalue.KindArray:
		idx, appendAt, err := resolveArrayToken(t, len(container.Arr), forAdd)
		if err != nil {
			return err
		}
		if appendAt {
			container.Arr = append(container.Arr, val)
			return nil
		}
		if forAdd {
			container.Arr = append(container.Arr, nil)
			copy(container.Arr[idx+1:], container.Arr[idx:])
			container.Arr[idx] = val
			return nil
		}
		container.Arr[idx] = val
		return nil
	default:
		return apperr.New(apperr.KindPointer, "cannot descend into a scalar")
	}
}

func deleteChild(container *jsonvalue.Value, t pointer.Token, full pointer.Pointer) error {
	switch container.Kind {
	case jsonvalue.KindObject:
		if t.Kind != pointer.KindKey {
			return apperr.New(apperr.KindPointer, "cannot use array token on an object")
		}
		if _, ok := container.Obj.Get(t.Key); !ok {
			return apperr.New(apperr.KindPointer, "key %q not found at %q", t.Key, full.String())
		}
		container.Obj.Delete(t.Key)
		return nil
	case jsonvalue.KindArray:
		idx, _, err := resolveArrayToken(t, len(container.Arr), false)
		if err != nil {
			return apperr.Wrap(apperr.KindPointer, err, "deleting %q", full.String())
		}
		container.Arr = append(container.Arr[:idx], container.Arr[idx+1:]...)
		return nil
	default:
		return apperr.New(apperr.KindPointer, "cannot descend into a scalar")
	}
}

func resolveArrayToken(t pointer.Token, arrayLen int, forAdd bool) (idx int, isAppend bool, err error) {
	switch t.Kind {
	case pointer.KindAppend:
		if !forAdd {
			return 0, false, apperr.New(apperr.KindPointer, "'-' is only valid for add")
		}
		return 0, true, nil
	case pointer.KindIndex:
		idx = t.Index
	case pointer.KindKey:
		parsed, appendAt, perr := pointer.ParseIndexToken(t.Key, arrayLen, forAdd)
		if perr != nil {
			return 0, false, apperr.Wrap(apperr.KindPointer, perr, "array index")
		}
		if appendAt {
			return 0, true, nil
		}
		idx = parsed
	}
	if forAdd {
		if idx < 0 || idx > arrayLen {
			return 0, false, apperr.New(apperr.KindPointer, "array index %d out of bounds for insert (length %d)", idx, arrayLen)
		}
	} else if idx < 0 || idx >= arrayLen {
		return 0, false, apperr.New(apperr.KindPointer, "array index %d out of bounds (length %d)", idx, arrayLen)
	}
	return idx, false, nil
}
