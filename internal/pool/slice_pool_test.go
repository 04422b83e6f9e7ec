package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("returns slice with correct size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(100)
		defer cleanup()

		require.Len(t, slice, 100)
		require.GreaterOrEqual(t, cap(slice), 100)
	})

	t.Run("grows when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetFloat64Slice(10)
		cleanup1()

		slice, cleanup2 := GetFloat64Slice(1000)
		defer cleanup2()

		require.Len(t, slice, 1000)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(0)
		defer cleanup()

		require.Empty(t, slice)
	})
}

func TestGetIntSlice(t *testing.T) {
	slice, cleanup := GetIntSlice(64)
	defer cleanup()

	require.Len(t, slice, 64)
	for i := range slice {
		slice[i] = i
	}
	require.Equal(t, 63, slice[63])
}

func TestSlicePool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s, cleanup := GetFloat64Slice(n + i)
				s[len(s)-1] = float64(i)
				cleanup()
			}
		}(g + 1)
	}
	wg.Wait()
}
