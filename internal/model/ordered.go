// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// ordered is an insertion-ordered map. Overwriting an existing key keeps its
// original position.
type ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{values: make(map[K]V)}
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.values[k]
	return v, ok
}

// set stores v under k and reports whether k was already present.
func (o *ordered[K, V]) set(k K, v V) bool {
	_, existed := o.values[k]
	if !existed {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
	return existed
}

func (o *ordered[K, V]) delete(k K) {
	if _, ok := o.values[k]; !ok {
		return
	}
	delete(o.values, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *ordered[K, V]) len() int {
	return len(o.keys)
}

// keyList returns a copy of the keys in insertion order.
func (o *ordered[K, V]) keyList() []K {
	out := make([]K, len(o.keys))
	copy(out, o.keys)
	return out
}

// valueList returns the values in insertion order.
func (o *ordered[K, V]) valueList() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.values[k])
	}
	return out
}
