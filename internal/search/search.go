// Package search executes a compiled query against every index shard
// concurrently and merges the results. Pagination (offset/limit) is
// deliberately NOT applied here -- dedup must run on the full
// candidate set first; callers slice
// offset/limit only after internal/dedup has narrowed the hits.
package search

import (
	"sort"
	"sync"

	"jsonai/internal/index"
	"jsonai/internal/query"
	"jsonai/internal/shred"
)

// Hit pairs a shredded record with its relevance score.
type Hit struct {
	Record *shred.Record
	Score  float32
}

// Search runs compiled against every shard concurrently -- one
// goroutine per shard, with no pool bound (unlike internal/ingest's
// semaphore-bounded parsing) -- and merges the per-shard hit
// lists by score desc, doc_id asc (stable across runs on the same
// input). perShardLimit bounds how many hits each
// shard itself may contribute before the merge.
func Search(shards []*index.Shard, compiled *query.Compiled, perShardLimit int) ([]Hit, error) {
	type shardResult struct {
		hits []Hit
		err  error
	}

	results := make([]shardResult, len(shards))
	var wg sync.WaitGroup
	for i, shard := range shards {
		wg.Add(1)
		go func(i int, shard *index.Shard) {
			defer wg.Done()
			hits, err := searchShard(shard, compiled, perShardLimit)
			results[i] = shardResult{hits: hits, err: err}
		}(i, shard)
	}
	wg.Wait()

	var merged []Hit
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		merged = append(merged, r.hits...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].Record.DocID < merged[j].Record.DocID
	})
	return merged, nil
}

func searchShard(shard *index.Shard, compiled *query.Compiled, limit int) ([]Hit, error) {
	if compiled.UsesEngine() {
		return searchShardViaEngine(shard, compiled, limit)
	}
	return searchShardViaPredicate(shard, compiled, limit)
}

func searchShardViaEngine(shard *index.Shard, compiled *query.Compiled, limit int) ([]Hit, error) {
	// A shard that never saw any of the query's fields has no FTS5
	// column to match against; it contributes zero hits, not an error.
	known := false
	for _, f := range compiled.Fields {
		if shard.HasField(f) {
			known = true
			break
		}
	}
	if !known {
		return nil, nil
	}

	scored, err := shard.MatchDocIDs(compiled.FTSExpr, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(scored))
	for _, sd := range scored {
		rec, ok := shard.RecordByDocID(sd.DocID)
		if !ok {
			continue
		}
		hits = append(hits, Hit{Record: rec, Score: sd.Score})
	}
	return hits, nil
}

func searchShardViaPredicate(shard *index.Shard, compiled *query.Compiled, limit int) ([]Hit, error) {
	var hits []Hit
	for i := range shard.Records {
		r := &shard.Records[i]
		if ok, score := compiled.Evaluate(r); ok {
			hits = append(hits, Hit{Record: r, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Record.DocID < hits[j].Record.DocID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
