package main

import (
	"strings"

	"github.com/spf13/cobra"

	"jsonai/internal/apperr"
	"jsonai/internal/dedup"
	"jsonai/internal/format"
	"jsonai/internal/index"
	"jsonai/internal/overflow"
	"jsonai/internal/query"
	"jsonai/internal/search"
)

var (
	searchQuery      string
	searchFields     []string
	searchAll        bool
	searchMode       string
	searchOutput     string
	searchLimit      int
	searchOffset     int
	searchCountOnly  bool
	searchSelect     string
	searchBare       bool
	searchMaxBytes   int
	searchSchema     string
	searchThreshold  int
	searchPlan       bool
	searchNoOverflow bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "query string (required)")
	searchCmd.Flags().StringArrayVarP(&searchFields, "field", "f", nil, "field to search (repeatable)")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "search every field (__all__)")
	searchCmd.Flags().StringVarP(&searchMode, "match", "m", "text", "match mode: text, exact, fuzzy, regex")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "match", "output mode: match, hit, value")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "maximum results to return")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "pagination offset, applied after dedup")
	searchCmd.Flags().BoolVar(&searchCountOnly, "count-only", false, "report only meta.total, no records")
	searchCmd.Flags().StringVar(&searchSelect, "select", "", "comma-separated dot-path fields to project")
	searchCmd.Flags().BoolVar(&searchBare, "bare", false, "suppress the envelope, emit a bare array")
	searchCmd.Flags().IntVar(&searchMaxBytes, "max-bytes", 0, "truncate output to fit this byte budget")
	searchCmd.Flags().StringVar(&searchSchema, "schema", "", "comma-separated field names, skips leaf-path discovery")
	searchCmd.Flags().IntVar(&searchThreshold, "threshold", 50, "hit count above which an overflow plan is returned")
	searchCmd.Flags().BoolVar(&searchPlan, "plan", false, "force an overflow plan regardless of hit count")
	searchCmd.Flags().BoolVar(&searchNoOverflow, "no-overflow", false, "never return an overflow plan")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <INPUT>",
	Short: "Search JSON documents by keyword, literal value, fuzzy match, or regex",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	inputArg := args[0]
	if searchQuery == "" {
		return apperr.New(apperr.KindUsage, "search requires -q/--query")
	}

	mode, err := query.ParseMode(searchMode)
	if err != nil {
		return err
	}
	outMode, err := format.ParseMode(searchOutput)
	if err != nil {
		return err
	}

	var schemaFields []string
	if searchSchema != "" {
		schemaFields = splitCSV(searchSchema)
	}

	shards, err := loadShards(inputArg, schemaFields)
	if err != nil {
		return err
	}
	defer closeShards(shards)

	compiled, err := query.Compile(searchQuery, mode, searchFields, searchAll)
	if err != nil {
		return err
	}

	rawHits, err := search.Search(shards, compiled, 0)
	if err != nil {
		return err
	}

	deduped := dedup.Dedup(rawHits)
	totalMatched := len(deduped)

	if overflow.ShouldPlan(totalMatched, searchThreshold, searchPlan, searchNoOverflow) {
		plan := overflow.Build(deduped, searchQuery, inputArg)
		return writePlan(plan, totalMatched)
	}

	page := paginate(deduped, searchOffset, searchLimit)

	var selectFields []string
	if searchSelect != "" {
		selectFields = splitCSV(searchSelect)
	}

	opts := format.Options{
		Mode:          outMode,
		Bare:          searchBare,
		CountOnly:     searchCountOnly,
		Select:        selectFields,
		MaxBytes:      searchMaxBytes,
		Pretty:        wantPretty(),
		FilesSearched: len(shards),
		Limit:         searchLimit,
	}

	if err := writeFormatted(page, totalMatched, opts); err != nil {
		return err
	}

	if totalMatched == 0 {
		return apperr.New(apperr.KindNoMatch, "no matches for %q", searchQuery)
	}
	return nil
}

func closeShards(shards []*index.Shard) {
	for _, s := range shards {
		s.Close()
	}
}

func paginate(hits []search.Hit, offset, limit int) []search.Hit {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(hits) {
		return nil
	}
	end := len(hits)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return hits[offset:end]
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
