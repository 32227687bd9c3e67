package ingest

type Result struct {
	EncountersCreated int
	RoutesCreated     int
	RoutesWired       int
	FilesSkipped      int
	// Keys maps each imported document key to its new encounter id.
	Keys   map[string]int64
	Errors []error
}

type Options struct {
	Exclude []string
}
