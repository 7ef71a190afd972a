package common

import "slices"

// TrackingList is an ordered list that notifies observers when items are added or removed.
// Notifications run synchronously inside the mutating call, in mutation order.
// An observer returning an error from OnAdd aborts the add; the item stays out of the list.
type TrackingList[T comparable] struct {
	items    []T
	onAdd    func(item T) error
	onRemove func(item T)
}

// NewTrackingList creates an empty list with the given observers (either may be nil).
//
// Parameters:
//   - onAdd: called after an item is inserted; an error removes the item again and is returned to the caller
//   - onRemove: called after an item is removed
//
// Returns:
//   - *TrackingList[T]: the new list
func NewTrackingList[T comparable](onAdd func(item T) error, onRemove func(item T)) *TrackingList[T] {
	return &TrackingList[T]{onAdd: onAdd, onRemove: onRemove}
}

// Add appends item to the end of the list.
func (l *TrackingList[T]) Add(item T) error {
	return l.Insert(len(l.items), item)
}

// Insert places item at index, clamped to [0, Len()].
func (l *TrackingList[T]) Insert(index int, item T) error {
	index = max(0, min(index, len(l.items)))
	l.items = slices.Insert(l.items, index, item)
	if l.onAdd == nil {
		return nil
	}
	if err := l.onAdd(item); err != nil {
		l.items = slices.Delete(l.items, index, index+1)
		return err
	}
	return nil
}

// Remove deletes the first occurrence of item.
//
// Returns:
//   - bool: true if the item was present
func (l *TrackingList[T]) Remove(item T) bool {
	i := slices.Index(l.items, item)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	if l.onRemove != nil {
		l.onRemove(item)
	}
	return true
}

// Clear removes every item, notifying in reverse order.
func (l *TrackingList[T]) Clear() {
	for len(l.items) > 0 {
		last := l.items[len(l.items)-1]
		l.items = l.items[:len(l.items)-1]
		if l.onRemove != nil {
			l.onRemove(last)
		}
	}
}

// Contains reports whether item is in the list.
func (l *TrackingList[T]) Contains(item T) bool {
	return slices.Contains(l.items, item)
}

// Len returns the number of items.
func (l *TrackingList[T]) Len() int {
	return len(l.items)
}

// At returns the item at index.
func (l *TrackingList[T]) At(index int) T {
	return l.items[index]
}

// Items returns a copy of the items in order.
func (l *TrackingList[T]) Items() []T {
	return slices.Clone(l.items)
}
