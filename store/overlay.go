// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

// overlay stages writes in a stack of levels over the committed data.
// Each level sees the writes of the levels below it; popping a level
// reverts everything written since it was pushed.
type overlay struct {
	levels []*level
	revs   map[string][]int // levels holding each key, ascending
}

type level struct {
	kvs     map[string][]byte
	journal []journalEntry
}

type journalEntry struct {
	key   string
	value []byte
}

func newOverlay() *overlay {
	o := &overlay{revs: make(map[string][]int)}
	o.push()
	return o
}

func (o *overlay) depth() int {
	return len(o.levels)
}

// push adds a level and returns the depth before it.
func (o *overlay) push() int {
	o.levels = append(o.levels, &level{kvs: make(map[string][]byte)})
	return len(o.levels) - 1
}

// popTo drops levels until the stack is depth deep.
func (o *overlay) popTo(depth int) {
	for len(o.levels) > depth {
		top := o.levels[len(o.levels)-1]
		for key := range top.kvs {
			revs := o.revs[key]
			if revs = revs[:len(revs)-1]; len(revs) == 0 {
				delete(o.revs, key)
			} else {
				o.revs[key] = revs
			}
		}
		o.levels = o.levels[:len(o.levels)-1]
	}
}

func (o *overlay) get(key string) ([]byte, bool) {
	revs, ok := o.revs[key]
	if !ok {
		return nil, false
	}
	return o.levels[revs[len(revs)-1]].kvs[key], true
}

// put writes into the top level.
func (o *overlay) put(key string, value []byte) {
	rev := len(o.levels) - 1
	top := o.levels[rev]
	if _, ok := top.kvs[key]; !ok {
		o.revs[key] = append(o.revs[key], rev)
	}
	top.kvs[key] = value
	top.journal = append(top.journal, journalEntry{key, value})
}

// journal returns every live write in order.
func (o *overlay) journal() (j []journalEntry) {
	for _, lvl := range o.levels {
		j = append(j, lvl.journal...)
	}
	return
}
