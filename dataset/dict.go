// Copyright 2026 courserec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import "github.com/samber/lo"

type dictEntry struct {
	key  string
	freq int
}

// FreqDict maps strings to dense indices in first-appearance order and counts how
// many times each string was seen.
type FreqDict struct {
	index   map[string]int
	entries []dictEntry
}

func NewFreqDict() *FreqDict {
	return &FreqDict{index: make(map[string]int)}
}

// Count returns the number of distinct strings.
func (d *FreqDict) Count() int {
	return len(d.entries)
}

// Id returns the index of s, adding it if absent, and increments its frequency.
func (d *FreqDict) Id(s string) int {
	id, ok := d.index[s]
	if !ok {
		id = len(d.entries)
		d.index[s] = id
		d.entries = append(d.entries, dictEntry{key: s})
	}
	d.entries[id].freq++
	return id
}

// Lookup returns the index of s without modifying the dictionary.
func (d *FreqDict) Lookup(s string) (int, bool) {
	id, ok := d.index[s]
	return id, ok
}

func (d *FreqDict) valid(id int) bool {
	return id >= 0 && id < len(d.entries)
}

func (d *FreqDict) String(id int) (string, bool) {
	if !d.valid(id) {
		return "", false
	}
	return d.entries[id].key, true
}

func (d *FreqDict) Freq(id int) int {
	if !d.valid(id) {
		return 0
	}
	return d.entries[id].freq
}

// Strings returns every key in index order.
func (d *FreqDict) Strings() []string {
	return lo.Map(d.entries, func(e dictEntry, _ int) string { return e.key })
}
