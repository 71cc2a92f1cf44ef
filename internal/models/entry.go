package models

import "github.com/google/uuid"

// EntryID identifies an element of an embedded list.
type EntryID string

// NewEntryID returns a fresh random id.
func NewEntryID() EntryID {
	return EntryID(uuid.NewString())
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

func indexWhere[T any](list []T, match func(T) bool) (int, bool) {
	for i, v := range list {
		if match(v) {
			return i, true
		}
	}
	return -1, false
}

func removeAt[T any](list []T, i int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}
