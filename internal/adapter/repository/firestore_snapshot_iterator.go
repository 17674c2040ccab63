package repository

import (
	"cloud.google.com/go/firestore"
)

// snapshotIterator decodes every snapshot of a live query into a full result list.
type snapshotIterator[T any] struct {
	iter   *firestore.QuerySnapshotIterator
	decode func(*firestore.DocumentSnapshot) (T, error)
}

func (s *snapshotIterator[T]) Next() ([]T, error) {
	snap, err := s.iter.Next()
	if err != nil {
		return nil, err
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := s.decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *snapshotIterator[T]) Stop() {
	s.iter.Stop()
}
