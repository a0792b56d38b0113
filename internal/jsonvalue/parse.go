package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DuplicateKeyWarning records a last-wins key collision encountered
// while parsing an object.
type DuplicateKeyWarning struct {
	Pointer string // slash-joined path (keys unescaped) of the colliding key
	Key     string
}

// ParseError carries a 1-based line/column alongside the file it came
// from.
type ParseError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes JSON bytes into a Value tree, preserving object key
// order and reporting duplicate-key collisions as warnings (last
// value wins). file is used only to annotate parse errors.
func Parse(data []byte, file string) (*Value, []DuplicateKeyWarning, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var warnings []DuplicateKeyWarning
	v, err := decodeValue(dec, "", &warnings)
	if err != nil {
		line, col := offsetToLineCol(data, decoderOffset(dec, err))
		return nil, nil, &ParseError{File: file, Line: line, Column: col, Err: err}
	}

	// Reject trailing garbage after the first value.
	if _, err := dec.Token(); err != io.EOF {
		line, col := offsetToLineCol(data, dec.InputOffset())
		return nil, nil, &ParseError{File: file, Line: line, Column: col, Err: fmt.Errorf("unexpected trailing data")}
	}

	return v, warnings, nil
}

func decoderOffset(dec *json.Decoder, err error) int64 {
	var se *json.SyntaxError
	if ok := asSyntaxError(err, &se); ok {
		return se.Offset
	}
	return dec.InputOffset()
}

func asSyntaxError(err error, target **json.SyntaxError) bool {
	se, ok := err.(*json.SyntaxError)
	if ok {
		*target = se
	}
	return ok
}

func offsetToLineCol(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

func decodeValue(dec *json.Decoder, pointerHint string, warnings *[]DuplicateKeyWarning) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeFromToken(dec, tok, pointerHint, warnings)
}

func decodeFromToken(dec *json.Decoder, tok json.Token, pointerHint string, warnings *[]DuplicateKeyWarning) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewOrderedMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				childPointer := pointerHint + "/" + key
				val, err := decodeValue(dec, childPointer, warnings)
				if err != nil {
					return nil, err
				}
				if _, exists := m.Get(key); exists {
					*warnings = append(*warnings, DuplicateKeyWarning{Pointer: childPointer, Key: key})
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return Object(m), nil
		case '[':
			var arr []*Value
			i := 0
			for dec.More() {
				childPointer := fmt.Sprintf("%s/%d", pointerHint, i)
				val, err := decodeValue(dec, childPointer, warnings)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
				i++
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return Array(arr), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// Marshal serializes v to compact or indented JSON, preserving key
// order.
func Marshal(v *Value, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, pretty, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v *Value, pretty bool, depth int) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	switch v.Kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(string(v.Num))
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		if len(v.Arr) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, e := range v.Arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, pretty, depth+1)
			if err := encodeValue(buf, e, pretty, depth+1); err != nil {
				return err
			}
		}
		writeNewlineIndent(buf, pretty, depth)
		buf.WriteByte(']')
	case KindObject:
		if v.Obj.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		first := true
		var encErr error
		v.Obj.Each(func(k string, val *Value) {
			if encErr != nil {
				return
			}
			if !first {
				buf.WriteByte(',')
			}
			writeNewlineIndent(buf, pretty, depth+1)
			kb, err := json.Marshal(k)
			if err != nil {
				encErr = err
				return
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			if err := encodeValue(buf, val, pretty, depth+1); err != nil {
				encErr = err
				return
			}
			first = false
		})
		if encErr != nil {
			return encErr
		}
		writeNewlineIndent(buf, pretty, depth)
		buf.WriteByte('}')
	}
	return nil
}

func writeNewlineIndent(buf *bytes.Buffer, pretty bool, depth int) {
	if !pretty {
		return
	}
	buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		buf.WriteString("  ")
	}
}
