package main

// Process exit codes.
const (
	ExitSuccess = 0 // search: >=1 match; mutation: success
	ExitNoMatch = 1 // search: zero matches
	ExitError   = 2 // any error: parse failure, IO, invalid pointer, patch test failure, usage error
)
