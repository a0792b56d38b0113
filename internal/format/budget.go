package format

import (
	"encoding/json"

	"jsonai/internal/apperr"
	"jsonai/internal/jsonvalue"
)

// marshalJSON renders v compact or pretty per the caller's
// --pretty/--compact choice.
func marshalJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// marshalBudgeted serializes env with its Results field trimmed to fit
// opts.MaxBytes, flipping meta.truncated when it had to drop trailing
// records: records are conceptually added one-by-one
// and the formatter stops before exceeding N bytes; the envelope
// itself counts against the budget, so an unreachable budget even at
// zero records is a usage error.
func marshalBudgeted(env Envelope, records []*jsonvalue.Value, opts Options) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		return marshalJSON(env, opts.Pretty)
	}
	for n := len(records); ; n-- {
		env.Results = records[:n]
		env.Meta.Returned = n
		env.Meta.Truncated = env.Meta.Truncated || n < len(records)
		data, err := marshalJSON(env, opts.Pretty)
		if err != nil {
			return nil, err
		}
		if len(data) <= opts.MaxBytes {
			return data, nil
		}
		if n == 0 {
			return nil, apperr.New(apperr.KindUsage, "max-bytes %d is too small to fit even an empty envelope", opts.MaxBytes)
		}
	}
}

// marshalBudgetedHits is marshalBudgeted's twin for "hit" mode, whose
// envelope carries Hits instead of Results.
func marshalBudgetedHits(env Envelope, hits []Hit, opts Options) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		return marshalJSON(env, opts.Pretty)
	}
	for n := len(hits); ; n-- {
		env.Hits = hits[:n]
		env.Meta.Returned = n
		env.Meta.Truncated = env.Meta.Truncated || n < len(hits)
		data, err := marshalJSON(env, opts.Pretty)
		if err != nil {
			return nil, err
		}
		if len(data) <= opts.MaxBytes {
			return data, nil
		}
		if n == 0 {
			return nil, apperr.New(apperr.KindUsage, "max-bytes %d is too small to fit even an empty envelope", opts.MaxBytes)
		}
	}
}

// marshalBareArray renders records as a bare top-level JSON array
// (--bare), trimming trailing entries to fit opts.MaxBytes. Bare mode
// has no meta to report truncation in, so an over-budget array is
// silently trimmed to the largest prefix that fits, matching
// --bare's documented tradeoff of losing the envelope entirely.
func marshalBareArray(records []*jsonvalue.Value, opts Options) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		return marshalJSON(records, opts.Pretty)
	}
	for n := len(records); ; n-- {
		data, err := marshalJSON(records[:n], opts.Pretty)
		if err != nil {
			return nil, err
		}
		if len(data) <= opts.MaxBytes {
			return data, nil
		}
		if n == 0 {
			return nil, apperr.New(apperr.KindUsage, "max-bytes %d is too small to fit even an empty array", opts.MaxBytes)
		}
	}
}

// marshalBareHits is marshalBareArray's twin for "hit --bare" mode.
func marshalBareHits(hits []Hit, opts Options) ([]byte, error) {
	if opts.MaxBytes <= 0 {
		return marshalJSON(hits, opts.Pretty)
	}
	for n := len(hits); ; n-- {
		data, err := marshalJSON(hits[:n], opts.Pretty)
		if err != nil {
			return nil, err
		}
		if len(data) <= opts.MaxBytes {
			return data, nil
		}
		if n == 0 {
			return nil, apperr.New(apperr.KindUsage, "max-bytes %d is too small to fit even an empty array", opts.MaxBytes)
		}
	}
}
