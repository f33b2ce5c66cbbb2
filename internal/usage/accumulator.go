// Package usage accumulates command and user activity between stats
// submissions.
package usage

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// DefaultCustomValue is the value of a custom slot that has not been set.
const DefaultCustomValue = "0"

// ErrInvalidArgument is returned for empty names or unknown custom slots.
var ErrInvalidArgument = errors.New("usage: invalid argument")

// CommandCount is the invocation count of a single command.
type CommandCount struct {
	Name  string
	Count int
}

// Snapshot is a point-in-time copy of the accumulator.
type Snapshot struct {
	ActiveUsers []string
	CommandsRun int
	Popular     []CommandCount
	Custom1     string
	Custom2     string
}

// Accumulator tracks active users, command invocations and the two custom
// fields since the last Reset. It is safe for concurrent use.
//
// CommandsRun always equals the sum of all Popular counts.
type Accumulator struct {
	mu          sync.Mutex
	users       map[string]struct{}
	userOrder   []string
	commandsRun int
	popular     []CommandCount
	index       map[string]int
	custom      [2]string
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.reset()
	return a
}

// Record counts one invocation of command by userID and returns the
// command's updated count. Both arguments must be non-empty.
func (a *Accumulator) Record(command, userID string) (CommandCount, error) {
	if command == "" {
		return CommandCount{}, fmt.Errorf("%w: command name is empty", ErrInvalidArgument)
	}
	if userID == "" {
		return CommandCount{}, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.users[userID]; !ok {
		a.users[userID] = struct{}{}
		a.userOrder = append(a.userOrder, userID)
	}

	a.commandsRun++

	i, ok := a.index[command]
	if !ok {
		i = len(a.popular)
		a.index[command] = i
		a.popular = append(a.popular, CommandCount{Name: command})
	}
	a.popular[i].Count++
	return a.popular[i], nil
}

// SetCustom sets custom slot 1 or 2.
func (a *Accumulator) SetCustom(slot int, value string) error {
	if slot != 1 && slot != 2 {
		return fmt.Errorf("%w: custom slot %d (must be 1 or 2)", ErrInvalidArgument, slot)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.custom[slot-1] = value
	return nil
}

// Snapshot returns a deep copy of the current state. Popular is in
// insertion order.
func (a *Accumulator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		ActiveUsers: slices.Clone(a.userOrder),
		CommandsRun: a.commandsRun,
		Popular:     slices.Clone(a.popular),
		Custom1:     a.custom[0],
		Custom2:     a.custom[1],
	}
}

// Reset clears users, counters and popular commands and restores both
// custom slots to DefaultCustomValue.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

// Must be called with a.mu held, or before a is shared.
func (a *Accumulator) reset() {
	a.users = make(map[string]struct{})
	a.userOrder = nil
	a.commandsRun = 0
	a.popular = nil
	a.index = make(map[string]int)
	a.custom = [2]string{DefaultCustomValue, DefaultCustomValue}
}

// Top returns at most n entries of popular ordered by descending count.
// Entries with equal counts keep their relative order. popular is not
// modified.
func Top(popular []CommandCount, n int) []CommandCount {
	sorted := slices.Clone(popular)
	slices.SortStableFunc(sorted, func(x, y CommandCount) int {
		return cmp.Compare(y.Count, x.Count)
	})
	if n < 0 {
		n = 0
	}
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
