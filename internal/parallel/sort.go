package parallel

import (
	"golang.org/x/exp/slices"
)

// Sort returns a sorted copy of items. The input is cut into chunks of
// chunkSize (0 derives one chunk per worker), each chunk is sorted on the
// pool, and the sorted runs are merged. Equal elements may come out in a
// different relative order than a sequential stable sort would give.
func Sort[T any](wp *WorkerPool, items []T, chunkSize int, cmp func(a, b T) int) []T {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}

	chunks := Chunk(out, chunkSize, wp.Workers())
	runs := ProcessIndexed(wp, chunks, func(_ int, c []T) []T {
		slices.SortFunc(c, cmp)
		return c
	})

	for len(runs) > 1 {
		next := make([][]T, 0, (len(runs)+1)/2)
		for i := 0; i < len(runs); i += 2 {
			if i+1 == len(runs) {
				next = append(next, runs[i])
				continue
			}
			next = append(next, merge(runs[i], runs[i+1], cmp))
		}
		runs = next
	}
	return runs[0]
}

// Chunk splits items into consecutive sub-slices of at most size elements.
// A non-positive size spreads items evenly over parts chunks.
func Chunk[T any](items []T, size, parts int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		if parts <= 0 {
			parts = 1
		}
		size = (len(items) + parts - 1) / parts
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

func merge[T any](a, b []T, cmp func(a, b T) int) []T {
	out := make([]T, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
