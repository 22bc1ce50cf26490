package parallel_test

import (
	"cmp"
	"math/rand/v2"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paveg/tabular/internal/parallel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewWorkerPool(t *testing.T) {
	pool := parallel.NewWorkerPool(0)
	defer pool.Close()
	assert.Positive(t, pool.Workers())

	pool2 := parallel.NewWorkerPool(4)
	defer pool2.Close()
	assert.Equal(t, 4, pool2.Workers())

	pool3 := parallel.NewWorkerPool(-1)
	defer pool3.Close()
	assert.Equal(t, pool.Workers(), pool3.Workers())
}

func TestProcessIndexed(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	input := []string{"a", "b", "c", "d"}

	results := parallel.ProcessIndexed(pool, input, func(index int, value string) string {
		return value + string(rune('0'+index))
	})

	assert.Equal(t, []string{"a0", "b1", "c2", "d3"}, results)
}

func TestProcessIndexedEmpty(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	results := parallel.ProcessIndexed(pool, []string{}, func(_ int, value string) string {
		return value
	})

	assert.Nil(t, results)
}

func TestProcessIndexedConcurrency(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	var running, peak int64
	input := make([]int, 20)

	results := parallel.ProcessIndexed(pool, input, func(i int, _ int) int {
		current := atomic.AddInt64(&running, 1)
		for {
			seen := atomic.LoadInt64(&peak)
			if current <= seen || atomic.CompareAndSwapInt64(&peak, seen, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&running, -1)
		return i * 2
	})

	require.Len(t, results, 20)
	assert.Equal(t, 38, results[19])
	assert.Greater(t, atomic.LoadInt64(&peak), int64(1), "expected concurrent execution")
}

func TestWorkerPoolClose(t *testing.T) {
	pool := parallel.NewWorkerPool(2)

	results := parallel.ProcessIndexed(pool, []int{1, 2, 3}, func(_ int, x int) int { return x })
	assert.Equal(t, []int{1, 2, 3}, results)

	pool.Close()
	assert.NotPanics(t, func() { pool.Close() })

	// A closed pool starts no new work.
	var calls int64
	parallel.ProcessIndexed(pool, []int{1, 2, 3}, func(_ int, x int) int {
		atomic.AddInt64(&calls, 1)
		return x
	})
	assert.LessOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name  string
		size  int
		parts int
		want  [][]int
	}{
		{"fixed size", 3, 0, [][]int{{1, 2, 3}, {4, 5, 6}, {7}}},
		{"derived from parts", 0, 2, [][]int{{1, 2, 3, 4}, {5, 6, 7}}},
		{"single chunk", 0, 0, [][]int{{1, 2, 3, 4, 5, 6, 7}}},
		{"larger than input", 100, 0, [][]int{{1, 2, 3, 4, 5, 6, 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parallel.Chunk(items, tt.size, tt.parts))
		})
	}

	assert.Nil(t, parallel.Chunk([]int{}, 3, 0))
}

func TestSort_MatchesSequential(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	rng := rand.New(rand.NewPCG(1, 2))
	input := make([]int, 5000)
	for i := range input {
		input[i] = rng.IntN(1_000_000)
	}
	original := append([]int(nil), input...)

	for _, chunkSize := range []int{0, 1, 7, 250, 10_000} {
		got := parallel.Sort(pool, input, chunkSize, cmp.Compare[int])

		want := append([]int(nil), input...)
		sort.Ints(want)

		assert.Equal(t, want, got, "chunk size %d", chunkSize)
	}
	assert.Equal(t, original, input, "input must not be reordered")
}

func TestSort_Descending(t *testing.T) {
	pool := parallel.NewWorkerPool(3)
	defer pool.Close()

	got := parallel.Sort(pool, []int{3, 9, 1, 7, 5}, 2, func(a, b int) int { return cmp.Compare(b, a) })
	assert.Equal(t, []int{9, 7, 5, 3, 1}, got)
}

func TestSort_Small(t *testing.T) {
	pool := parallel.NewWorkerPool(2)
	defer pool.Close()

	assert.Empty(t, parallel.Sort(pool, []int{}, 0, cmp.Compare[int]))
	assert.Equal(t, []int{4}, parallel.Sort(pool, []int{4}, 0, cmp.Compare[int]))
}
