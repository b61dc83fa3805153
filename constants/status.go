package constants

// JobStatus is the canonical status for extraction jobs.
type JobStatus string

// Stable values (store these exact strings in the DB).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // accepted, waiting for a worker
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusTextOK  JobStatus = "TEXT_OK" // stage 1 completed (text extracted)
	JobStatusLLMOK   JobStatus = "LLM_OK"  // stage 2 completed (fields structured)
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
