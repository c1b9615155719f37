package sharedutil

import (
	"github.com/wayfarer-player/wayfarer/backend/library"
)

func MapSlice[T any, U any](ts []T, f func(T) U) []U {
	if ts == nil {
		return nil
	}
	result := make([]U, len(ts))
	for i, t := range ts {
		result[i] = f(t)
	}
	return result
}

func FilterSlice[T any](ss []T, test func(T) bool) []T {
	if ss == nil {
		return nil
	}
	result := make([]T, 0)
	for _, s := range ss {
		if test(s) {
			result = append(result, s)
		}
	}
	return result
}

// IndexOfSongByPath returns the position of the song with the given
// path, or -1. Songs are matched by path, not by value: two loads of
// the same track compare equal even if their tags were read separately.
func IndexOfSongByPath(path string, songs []library.Song) int {
	for i, s := range songs {
		if s.Path == path {
			return i
		}
	}
	return -1
}
