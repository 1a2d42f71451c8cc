package util

import (
	"errors"
	"sort"
)

// OrderedMap is a map that remembers the order in which keys were added.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

var (
	ErrorKeysDontMatchValues = errors.New("keys don't match values")
)

// NewOrderedMap takes the keys, in order, and their values.
func NewOrderedMap[V any](keys []string, values map[string]V) (*OrderedMap[V], error) {
	if len(keys) != len(values) {
		return nil, ErrorKeysDontMatchValues
	}
	mapKeys := []string{}
	for k := range values {
		mapKeys = append(mapKeys, k)
	}
	sort.Strings(mapKeys)

	sortedKeys := make([]string, len(keys))
	copy(sortedKeys, keys)
	sort.Strings(sortedKeys)

	for i := range sortedKeys {
		if mapKeys[i] != sortedKeys[i] {
			return nil, ErrorKeysDontMatchValues
		}
	}
	if values == nil {
		values = map[string]V{}
	}
	return &OrderedMap[V]{
		keys:   append([]string{}, keys...),
		values: values,
	}, nil
}

// Add appends a new key, or replaces the value of an existing one
// without moving it.
func (om *OrderedMap[V]) Add(name string, val V) {
	if _, has := om.values[name]; !has {
		om.keys = append(om.keys, name)
	}
	om.values[name] = val
}

func (om *OrderedMap[V]) Get(key string) (val V, has bool) {
	val, has = om.values[key]
	return
}

// Keys returns the keys in the order they were added.
func (om *OrderedMap[V]) Keys() []string {
	return append([]string{}, om.keys...)
}

func (om *OrderedMap[V]) Len() int {
	return len(om.keys)
}
