// Package pointer implements RFC 6901 JSON Pointers: encoding, decoding,
// and navigation against an internal/jsonvalue tree.
package pointer

import (
	"fmt"
	"strconv"
	"strings"

	"jsonai/internal/jsonvalue"
)

// TokenKind distinguishes an object-key token from an array-index token.
type TokenKind int

const (
	KindKey TokenKind = iota
	KindIndex
	KindAppend // the "-" sentinel, valid only for add
)

// Token is one segment of a Pointer.
type Token struct {
	Kind  TokenKind
	Key   string
	Index int
}

// Pointer is an ordered sequence of tokens. The empty Pointer denotes
// the document root.
type Pointer []Token

// Parent returns the pointer with its last token dropped, and that
// token. Ok is false for the root pointer, which has no parent.
func (p Pointer) Parent() (parent Pointer, last Token, ok bool) {
	if len(p) == 0 {
		return nil, Token{}, false
	}
	return p[:len(p)-1], p[len(p)-1], true
}

// String renders the pointer in its RFC 6901 on-wire form.
func (p Pointer) String() string {
	return Encode(p)
}

// Depth is the number of tokens (root = 0).
func (p Pointer) Depth() int { return len(p) }

// HasPrefix reports whether prefix is a proper token-wise prefix of p
// (used by containment ordering and dedup). A pointer is never its
// own prefix under this definition.
func (p Pointer) HasPrefix(prefix Pointer) bool {
	if len(prefix) >= len(p) {
		return false
	}
	for i := range prefix {
		if !tokensEqual(prefix[i], p[i]) {
			return false
		}
	}
	return true
}

func tokensEqual(a, b Token) bool {
	if a.Kind == KindKey && b.Kind == KindKey {
		return a.Key == b.Key
	}
	if a.Kind != KindKey && b.Kind != KindKey {
		return a.Index == b.Index
	}
	return false
}

// Encode joins tokens with '/', escaping each object-key token by
// replacing '~' with "~0" then '/' with "~1", in that order. Order is
// load-bearing: reversing it corrupts keys that contain a literal
// "~1".
func Encode(tokens []Token) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		switch t.Kind {
		case KindKey:
			b.WriteString(escapeSegment(t.Key))
		case KindAppend:
			b.WriteByte('-')
		default:
			b.WriteString(strconv.Itoa(t.Index))
		}
	}
	return b.String()
}

func escapeSegment(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	s = strings.ReplaceAll(s, "/", "~1")
	return s
}

func unescapeSegment(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '~' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("dangling '~' at end of token %q", s)
		}
		switch s[i+1] {
		case '1':
			b.WriteByte('/')
		case '0':
			b.WriteByte('~')
		default:
			return "", fmt.Errorf("invalid escape '~%c' in token %q", s[i+1], s)
		}
		i++
	}
	return b.String(), nil
}

// Decode parses an RFC 6901 pointer string into tokens. A "-" segment
// becomes the KindAppend sentinel; every other token is left generic
// (KindKey) here, and callers resolving against a concrete array use
// ParseIndexToken to reinterpret a key token as an index.
func Decode(s string) (Pointer, error) {
	if s == "" {
		return nil, nil
	}
	if s[0] != '/' {
		return nil, fmt.Errorf("JSON pointer must start with '/' (got %q)", s)
	}
	parts := strings.Split(s[1:], "/")
	tokens := make(Pointer, 0, len(parts))
	for _, raw := range parts {
		seg, err := unescapeSegment(raw)
		if err != nil {
			return nil, err
		}
		if seg == "-" {
			tokens = append(tokens, Token{Kind: KindAppend})
			continue
		}
		tokens = append(tokens, Token{Kind: KindKey, Key: seg})
	}
	return tokens, nil
}

// ParseIndexToken interprets a raw decoded segment as an array index or
// the append sentinel: no leading zeros
// (except "0" itself), ASCII digits only, "== arrayLen" is rejected
// for set/delete and accepted only for add (meaning append-at-end),
// "> arrayLen" is always rejected, and "-" is accepted only for add.
func ParseIndexToken(seg string, arrayLen int, forAdd bool) (idx int, isAppend bool, err error) {
	if seg == "-" {
		if !forAdd {
			return 0, false, fmt.Errorf("'-' is only valid for add")
		}
		return arrayLen, true, nil
	}
	if seg == "" {
		return 0, false, fmt.Errorf("empty array index")
	}
	if seg != "0" {
		if seg[0] == '0' {
			return 0, false, fmt.Errorf("array index %q has a leading zero", seg)
		}
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return 0, false, fmt.Errorf("array index %q is not a non-negative integer", seg)
		}
	}
	n, convErr := strconv.Atoi(seg)
	if convErr != nil {
		return 0, false, fmt.Errorf("array index %q out of range", seg)
	}
	if forAdd {
		if n > arrayLen {
			return 0, false, fmt.Errorf("array index %d out of bounds for insert (length %d)", n, arrayLen)
		}
	} else if n >= arrayLen {
		return 0, false, fmt.Errorf("array index %d out of bounds (length %d)", n, arrayLen)
	}
	return n, false, nil
}

// Navigate resolves pointer against root and returns the value found
// there, or an error. It never mutates root. Used by invariant I2 and
// by search/mutate read paths.
func Navigate(root *jsonvalue.Value, p Pointer) (*jsonvalue.Value, error) {
	current := root
	for i, t := range p {
		switch current.Kind {
		case jsonvalue.KindObject:
			if t.Kind != KindKey {
				return nil, fmt.Errorf("cannot index object with array token at %q", Encode(p[:i+1]))
			}
			v, ok := current.Obj.Get(t.Key)
			if !ok {
				return nil, fmt.Errorf("key %q not found at %q", t.Key, Encode(p[:i]))
			}
			current = v
		case jsonvalue.KindArray:
			var idx int
			switch t.Kind {
			case KindKey:
				var convErr error
				parsedIdx, _, err := ParseIndexToken(t.Key, len(current.Arr), false)
				convErr = err
				if convErr != nil {
					return nil, fmt.Errorf("%v at %q", convErr, Encode(p[:i+1]))
				}
				idx = parsedIdx
			case KindIndex:
				idx = t.Index
			default:
				return nil, fmt.Errorf("'-' does not resolve to an existing element at %q", Encode(p[:i+1]))
			}
			if idx < 0 || idx >= len(current.Arr) {
				return nil, fmt.Errorf("array index %d out of bounds at %q", idx, Encode(p[:i+1]))
			}
			current = current.Arr[idx]
		default:
			return nil, fmt.Errorf("cannot navigate into scalar at %q", Encode(p[:i]))
		}
	}
	return current, nil
}
