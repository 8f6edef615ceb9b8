package graphcycle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectCycle(t *testing.T) {
	graph := map[int][]int{
		1: {2},
		2: {3},
		3: {1},
	}
	err := Detect(Config[int]{
		Starts: []int{1},
		Next:   func(n int) []int { return graph[n] },
	})
	require.Error(t, err)
	var cycleErr CycleError[int]
	require.True(t, errors.As(err, &cycleErr))
	require.Equal(t, 1, cycleErr.Key)
	require.Equal(t, []int{1, 2, 3, 1}, cycleErr.Path)
}

func TestDetectSelfLoop(t *testing.T) {
	err := Detect(Config[string]{
		Starts: []string{"a"},
		Next: func(s string) []string {
			return []string{s}
		},
	})
	var cycleErr CycleError[string]
	require.ErrorAs(t, err, &cycleErr)
	require.Equal(t, []string{"a", "a"}, cycleErr.Path)
}

func TestDetectAcyclic(t *testing.T) {
	graph := map[int][]int{
		1: {2, 3},
		2: {3},
		3: nil,
		4: {1},
	}
	err := Detect(Config[int]{
		Starts: []int{1, 2, 3, 4},
		Next:   func(n int) []int { return graph[n] },
	})
	require.NoError(t, err)
}

func TestDetectNilNext(t *testing.T) {
	require.Error(t, Detect(Config[int]{Starts: []int{1}}))
}
