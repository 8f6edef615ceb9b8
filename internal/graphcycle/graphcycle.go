// Package graphcycle detects cycles in small directed graphs addressed by
// comparable keys.
package graphcycle

import "fmt"

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// CycleError reports a cycle. Path lists the keys on the cycle in visit
// order, starting and ending with Key.
type CycleError[K comparable] struct {
	Key  K
	Path []K
}

// Error returns the error string.
func (e CycleError[K]) Error() string {
	return fmt.Sprintf("cycle detected at %v", e.Key)
}

// Config configures a cycle detection traversal.
type Config[K comparable] struct {
	// Next returns the successors of a key, in a stable order.
	Next func(K) []K
	// Starts are visited in order.
	Starts []K
}

// Detect walks directed edges from Starts and reports the first cycle.
func Detect[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return fmt.Errorf("cycle detect: next function is nil")
	}
	states := make(map[K]visitState, len(cfg.Starts))
	var stack []K

	var visit func(key K) error
	visit = func(key K) error {
		switch states[key] {
		case stateVisiting:
			return CycleError[K]{Key: key, Path: cyclePath(stack, key)}
		case stateDone:
			return nil
		}
		states[key] = stateVisiting
		stack = append(stack, key)
		for _, next := range cfg.Next(key) {
			if err := visit(next); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		states[key] = stateDone
		return nil
	}

	for _, start := range cfg.Starts {
		if err := visit(start); err != nil {
			return err
		}
	}
	return nil
}

func cyclePath[K comparable](stack []K, key K) []K {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == key {
			path := make([]K, 0, len(stack)-i+1)
			path = append(path, stack[i:]...)
			return append(path, key)
		}
	}
	return []K{key}
}
