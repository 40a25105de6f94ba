// Copyright 2026 The rawpb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package swiss provides build-once swisstable implementations whose slots
// store values inline, so a lookup hit delivers the whole payload without a
// pointer chase or an allocation.
//
// Variable-length keys are supported through an extract function that
// recovers the key bytes for a fixed-size key surrogate; the table itself
// never retains the byte strings it is keyed by.
package swiss

import (
	"bytes"
	"fmt"
	"iter"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/rawpb/rawpb/internal/debug"
)

const maxEntries = math.MaxInt32 / 8

// Key is one of the allowed keys for [Table].
type Key interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~uintptr
}

// Table is a swisstable, presized for a known number of entries and never
// rehashed. Inserts happen at build time; lookups are read-only thereafter.
type Table[K Key, V any] struct {
	// There is a soft and a hard cap. The soft cap is how many elements can
	// be inserted into the table, while hard is the allocated slot count.
	len, soft, hard uint32

	seed fxhash

	ctrl   []ctrl // One byte per slot, eight slots per word.
	keys   []K
	values []V
}

// New allocates a table with capacity for n entries.
func New[K Key, V any](n int) *Table[K, V] {
	if n > maxEntries {
		panic(fmt.Sprintf("swiss: cannot create table of length %d; max is %d", n, maxEntries))
	}

	soft, hard := loadFactor(n)
	return &Table[K, V]{
		soft: soft,
		hard: hard,
		seed: fxhash(rand.Uint64()),
		// empty is chosen to be zero so that we do not need to initialize
		// the control words.
		ctrl:   make([]ctrl, hard/8),
		keys:   make([]K, hard),
		values: make([]V, hard),
	}
}

// Len returns this table's length.
func (t *Table[K, V]) Len() int {
	return int(t.len)
}

// Lookup looks up the given key and returns its slot, or nil if no such key.
func (t *Table[K, V]) Lookup(k K) *V {
	h := t.seed.u64(zext(k))
	idx, occupied := t.search(h, k)
	if !occupied {
		return nil
	}
	return &t.values[idx]
}

// LookupFunc is like Lookup, but takes the key as a byte string along with a
// function for extracting byte strings from the keys in the table.
func (t *Table[K, V]) LookupFunc(k []byte, extract func(K) []byte) *V {
	h := t.seed.bytes(k)
	idx, occupied := t.searchFunc(h, k, extract)
	if !occupied {
		return nil
	}
	return &t.values[idx]
}

// Insert inserts a slot for the given key and returns it.
//
// If the key is already present, returns the existing slot and false.
func (t *Table[K, V]) Insert(k K) (*V, bool) {
	debug.Assert(t.len < t.soft, "insert into full table")

	h := t.seed.u64(zext(k))
	idx, occupied := t.search(h, k)
	if occupied {
		return &t.values[idx], false
	}
	t.fill(idx, h, k)
	return &t.values[idx], true
}

// InsertFunc is like Insert, but hashes extract(k) instead of k itself.
func (t *Table[K, V]) InsertFunc(k K, extract func(K) []byte) (*V, bool) {
	debug.Assert(t.len < t.soft, "insert into full table")

	kb := extract(k)
	h := t.seed.bytes(kb)
	idx, occupied := t.searchFunc(h, kb, extract)
	if occupied {
		return &t.values[idx], false
	}
	t.fill(idx, h, k)
	return &t.values[idx], true
}

func (t *Table[K, V]) fill(idx int, h fxhash, k K) {
	t.ctrl[idx/8] = t.ctrl[idx/8].set(idx%8, h.h2())
	t.keys[idx] = k
	t.len++
}

// All ranges over a table.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if t.len == 0 {
			return
		}

		left := t.len
		for i, ctrl := range t.ctrl {
			for j := range 8 {
				if ctrl&0xff == empty {
					ctrl >>= 8
					continue
				}
				ctrl >>= 8

				n := i*8 + j
				left--
				if !yield(t.keys[n], t.values[n]) || left == 0 {
					return
				}
			}
		}
	}
}

// search searches for a key's slot: either an occupied slot, or an empty
// slot where it could be inserted at.
//
// Returns the index of the slot and whether it is already occupied.
func (t *Table[K, V]) search(h fxhash, k K) (idx int, occupied bool) {
	h2 := broadcast(h.h2())
	empty := broadcast(empty)

	p := newProber(t.ctrl, h)
	for {
		// Guaranteed to terminate because there's always going to be an open
		// slot to insert at.
		debug.Assert(p.i <= p.mask, "full table")

		var i int
		var ctrl ctrl
		p, i, ctrl = p.next()

		// First, check for any hits.
		mask := ctrl.matches(h2)
		if mask != 0 {
			n := i * 8
			for range 8 {
				var eq bool
				mask, eq = mask.next()
				if eq && t.keys[n] == k {
					return n, true
				}
				n++
			}
		}

		// Otherwise, check for empties.
		if j := ctrl.first(empty); j < 8 {
			return i*8 + j, false
		}
	}
}

// searchFunc is like search, but takes a function for extracting a
// variable-length key.
func (t *Table[K, V]) searchFunc(h fxhash, k []byte, extract func(K) []byte) (idx int, occupied bool) {
	h2 := broadcast(h.h2())
	empty := broadcast(empty)

	p := newProber(t.ctrl, h)
	for {
		debug.Assert(p.i <= p.mask, "full table")

		var i int
		var ctrl ctrl
		p, i, ctrl = p.next()

		mask := ctrl.matches(h2)
		if mask != 0 {
			n := i * 8
			for range 8 {
				var eq bool
				mask, eq = mask.next()
				if eq && bytes.Equal(k, extract(t.keys[n])) {
					return n, true
				}
				n++
			}
		}

		if j := ctrl.first(empty); j < 8 {
			return i*8 + j, false
		}
	}
}

// loadFactor calculates the slot count of a table with n elements,
// implementing a load factor of 7/8.
//
// The returned hard cap is always a power of two divisible by 8.
func loadFactor(n int) (soft, hard uint32) {
	if n < 8 {
		n = 7
	}

	// Go generates better code for unsigned arithmetic here.
	e := uint(n)
	c := e * 8 / 7
	// Make sure that c is a power of two. Pick the next power of two after c.
	if bits.OnesCount(c) != 1 {
		c = uint(1) << bits.Len(c)
	}
	return uint32(c / 8 * 7), uint32(c)
}

// Format implements [fmt.Formatter].
func (t *Table[K, V]) Format(s fmt.State, verb rune) {
	kv := "%v/%#x: " + fmt.FormatString(s, verb)
	first := true

	fmt.Fprint(s, "[")
	for k, v := range t.All() {
		if !first {
			fmt.Fprint(s, ", ")
		}
		first = false
		fmt.Fprintf(s, kv, k, k, v)
	}
	fmt.Fprint(s, "]")
}
