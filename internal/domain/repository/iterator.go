package repository

// SnapshotIterator yields the full, ordered result set of a live query each
// time it changes. Next blocks until the next snapshot is available.
type SnapshotIterator[T any] interface {
	Next() ([]T, error)
	Stop()
}
