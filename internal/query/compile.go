// Package query compiles a (query string, match mode, field set) triple
// into an engine query. Text mode compiles to an
// FTS5 MATCH expression the index engine (internal/index) executes
// directly; exact, fuzzy, and regex compile to a Go-side predicate
// evaluated against a shredded record's raw or indexed text, since
// none of those three modes benefit from the tokenized inverted index.
// The engine is treated as a narrow, substitutable dependency, not
// the whole query pipeline.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"jsonai/internal/apperr"
	"jsonai/internal/index"
	"jsonai/internal/shred"
	"jsonai/internal/tokenize"
)

// Mode is one of the four match modes.
type Mode string

const (
	ModeText  Mode = "text"
	ModeExact Mode = "exact"
	ModeFuzzy Mode = "fuzzy"
	ModeRegex Mode = "regex"
)

// ParseMode validates a CLI-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeText, ModeExact, ModeFuzzy, ModeRegex:
		return Mode(s), nil
	default:
		return "", apperr.New(apperr.KindUsage, "unknown match mode %q (want text, exact, fuzzy, or regex)", s)
	}
}

// Compiled is the query-compiler's output. Text mode is executed by
// the index engine directly (FTSExpr); the other three modes are
// evaluated record-by-record via Evaluate.
type Compiled struct {
	Mode    Mode
	Fields  []string
	FTSExpr string

	evaluate func(r *shred.Record) (matched bool, score float32)
}

// UsesEngine reports whether this query should be run through the
// index engine's MATCH capability (text mode) rather than evaluated
// directly against shredded records.
func (c *Compiled) UsesEngine() bool { return c.Mode == ModeText }

// Evaluate runs a non-engine query (exact, fuzzy, regex) against a
// single record, returning whether it matched and its score.
func (c *Compiled) Evaluate(r *shred.Record) (bool, float32) {
	return c.evaluate(r)
}

// Compile builds a Compiled query. all selects the synthetic __all__
// field; fields lists explicit --field values. Supplying both is a
// usage error.
func Compile(q string, mode Mode, fields []string, all bool) (*Compiled, error) {
	if all && len(fields) > 0 {
		return nil, apperr.New(apperr.KindUsage, "cannot combine --all with --field")
	}

	resolved := fields
	if all || len(fields) == 0 {
		resolved = []string{index.AllFieldName}
	}

	switch mode {
	case ModeText:
		return compileText(q, resolved)
	case ModeExact:
		return compileExact(q, resolved), nil
	case ModeFuzzy:
		return compileFuzzy(q, resolved), nil
	case ModeRegex:
		return compileRegex(q, resolved)
	default:
		return nil, apperr.New(apperr.KindUsage, "unknown match mode %q", mode)
	}
}

func compileText(q string, fields []string) (*Compiled, error) {
	terms := tokenize.Tokens(q)
	if len(terms) == 0 {
		return nil, apperr.New(apperr.KindUsage, "query %q has no searchable tokens", q)
	}
	termExpr := strings.Join(terms, " ")

	// A bare "col:" filter only scopes the single next phrase/token in
	// FTS5's column-filter grammar; without parens, any token after the
	// first falls back to an all-columns search. Parenthesizing the
	// term list keeps every token scoped to the chosen field.
	clauses := make([]string, 0, len(fields))
	for _, f := range fields {
		clauses = append(clauses, fmt.Sprintf("%s:(%s)", index.QuoteFTSColumn(f), termExpr))
	}
	expr := strings.Join(clauses, " OR ")

	return &Compiled{Mode: ModeText, Fields: fields, FTSExpr: expr}, nil
}

func compileExact(q string, fields []string) *Compiled {
	return &Compiled{
		Mode:   ModeExact,
		Fields: fields,
		evaluate: func(r *shred.Record) (bool, float32) {
			for _, f := range fields {
				for _, v := range valuesForField(r, f) {
					if v == q {
						return true, 1.0
					}
				}
			}
			return false, 0
		},
	}
}

func compileFuzzy(q string, fields []string) *Compiled {
	terms := tokenize.Tokens(q)
	return &Compiled{
		Mode:   ModeFuzzy,
		Fields: fields,
		evaluate: func(r *shred.Record) (bool, float32) {
			if len(terms) == 0 {
				return false, 0
			}
			totalDist := 0
			for _, term := range terms {
				best, ok := bestFuzzyMatch(term, fieldTokens(r, fields))
				if !ok {
					return false, 0
				}
				totalDist += best
			}
			// Closer matches (lower total edit distance) score higher.
			return true, 1.0 / float32(1+totalDist)
		},
	}
}

func compileRegex(q string, fields []string) (*Compiled, error) {
	re, err := regexp.Compile(q)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEngine, err, "invalid regex %q", q)
	}
	return &Compiled{
		Mode:   ModeRegex,
		Fields: fields,
		evaluate: func(r *shred.Record) (bool, float32) {
			for _, f := range fields {
				for _, v := range valuesForField(r, f) {
					if re.MatchString(v) {
						return true, 1.0
					}
				}
			}
			return false, 0
		},
	}, nil
}

// valuesForField returns a record's literal (untokenized) values for
// field, falling back to the tokenizable text for the synthetic
// __all__ field (which has no separate raw form).
func valuesForField(r *shred.Record, field string) []string {
	if field == index.AllFieldName {
		return []string{r.IndexedText[index.AllFieldName]}
	}
	return r.RawValues[field]
}

func fieldTokens(r *shred.Record, fields []string) []string {
	var all []string
	for _, f := range fields {
		all = append(all, tokenize.Tokens(r.IndexedText[f])...)
	}
	return all
}

// fuzzyThreshold returns the maximum Levenshtein distance allowed for
// a query term of this length: <=2 chars tolerate 0
// edits, 3-4 chars tolerate 1, 5+ chars tolerate 2.
func fuzzyThreshold(term string) int {
	switch {
	case len(term) >= 5:
		return 2
	case len(term) >= 3:
		return 1
	default:
		return 0
	}
}

func bestFuzzyMatch(term string, candidates []string) (int, bool) {
	threshold := fuzzyThreshold(term)
	best := -1
	for _, c := range candidates {
		d := levenshtein(term, c)
		if d <= threshold && (best == -1 || d < best) {
			best = d
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// levenshtein computes the edit distance between a and b. No
// third-party distance library appears anywhere in the retrieval
// pack, so this one small DP function is the justified std-lib-only
// exception (see DESIGN.md).
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
