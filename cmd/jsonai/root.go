package main

import (
	"jsonai/internal/apperr"
	"jsonai/internal/index"
	"jsonai/internal/ingest"
	"jsonai/internal/jsonvalue"
	"jsonai/internal/shred"
)

// loadShards resolves inputSpec to one or more files, parses each
// (aborting the whole invocation on the first parse error), and
// builds one index shard per file. doc_ids are assigned serially over
// the concatenation of every file's records in resolved-path order,
// never inside the parallel ingest itself, to keep assignment
// deterministic. Duplicate-key warnings are printed to stderr as
// they're found, never aborting.
func loadShards(inputSpec string, schemaFields []string) ([]*index.Shard, error) {
	paths, err := ingest.Resolve([]string{inputSpec})
	if err != nil {
		return nil, err
	}
	files, err := ingest.Load(paths)
	if err != nil {
		return nil, err
	}

	var nextDocID int64
	shards := make([]*index.Shard, 0, len(files))
	for _, f := range files {
		warnDuplicateKeys(f.Path, f.Warnings)

		records := shred.Shred(f.Root, f.Path)
		nextDocID = shred.AssignDocIDs(records, nextDocID)

		shard, err := index.Build(f.Path, records, schemaFields)
		if err != nil {
			return nil, err
		}
		shards = append(shards, shard)
	}
	return shards, nil
}

// mustOpenSingleFile loads exactly one input file's root value, for
// the mutation subcommands (set/add/delete/patch), which operate on a
// single target file rather than a search corpus.
func mustOpenSingleFile(path string) (*jsonvalue.Value, error) {
	files, err := ingest.Load([]string{path})
	if err != nil {
		return nil, err
	}
	warnDuplicateKeys(files[0].Path, files[0].Warnings)
	return files[0].Root, nil
}

func warnDuplicateKeys(file string, warnings []jsonvalue.DuplicateKeyWarning) {
	for _, w := range warnings {
		printErr(apperr.New(apperr.KindInput, "duplicate key %q at %s in %s (last value wins)", w.Key, w.Pointer, file))
	}
}
