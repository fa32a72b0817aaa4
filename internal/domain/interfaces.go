package domain

import "context"

// EmployeeFeed fetches the raw employee rows, header included.
type EmployeeFeed interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// RoleClassifier derives a leader role from a position string.
type RoleClassifier interface {
	Classify(position string) *Role
}

// ChartRecorder receives chart mutation outcomes, e.g. for metrics.
type ChartRecorder interface {
	NodesCreated(n int)
	NodesDeleted(n int)
	MutationRejected(op string)
}

// FeedRecorder receives the outcome of each pool load.
type FeedRecorder interface {
	RecordFeedLoad(err error, poolSize int)
}
