package cif

import (
	"fmt"
	"strings"
)

// Document is an ordered collection of named blocks.
type Document struct {
	blocks []*Block
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddBlock appends a block to the document.
func (d *Document) AddBlock(b *Block) {
	d.blocks = append(d.blocks, b)
}

// Blocks returns the blocks in file order.
func (d *Document) Blocks() []*Block {
	return d.blocks
}

// Block returns the block with the given name.
func (d *Document) Block(name string) (*Block, bool) {
	for _, b := range d.blocks {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// BlockByNameOrIndex resolves a block by its name, or by decimal index
// when no block carries the name. Mirrors the callers' habit of saying
// "0" for "the first block".
func (d *Document) BlockByNameOrIndex(key string) (*Block, error) {
	if b, ok := d.Block(key); ok {
		return b, nil
	}
	var idx int
	if _, err := fmt.Sscanf(key, "%d", &idx); err != nil {
		return nil, fmt.Errorf("block %q does not exist and cannot be used as an index", key)
	}
	if idx < 0 || idx >= len(d.blocks) {
		return nil, fmt.Errorf("block %q does not exist and index %d is out of range", key, idx)
	}
	return d.blocks[idx], nil
}

// entry is one ordered position inside a block: a data item or a loop.
type entry struct {
	name  string
	value string
	loop  *Loop
}

// Block is one named data block: data items and loops in file order.
type Block struct {
	Name    string
	entries []entry
}

// NewBlock returns an empty block.
func NewBlock(name string) *Block {
	return &Block{Name: name}
}

// Get returns a data item's value.
func (b *Block) Get(name string) (string, bool) {
	for _, e := range b.entries {
		if e.loop == nil && e.name == name {
			return e.value, true
		}
	}
	return "", false
}

// Set replaces a data item's value, appending the item when absent.
func (b *Block) Set(name, value string) {
	for i, e := range b.entries {
		if e.loop == nil && e.name == name {
			b.entries[i].value = value
			return
		}
	}
	b.entries = append(b.entries, entry{name: name, value: value})
}

// Delete removes a data item and reports whether it was present.
func (b *Block) Delete(name string) bool {
	for i, e := range b.entries {
		if e.loop == nil && e.name == name {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return true
		}
	}
	return false
}

// AddLoop appends a loop to the block.
func (b *Block) AddLoop(l *Loop) {
	b.entries = append(b.entries, entry{loop: l})
}

// Loop returns the loop whose columns belong to the given category, for
// example "_atom_site" matching columns named "_atom_site.label".
func (b *Block) Loop(category string) (*Loop, bool) {
	for _, e := range b.entries {
		if e.loop != nil && e.loop.Category() == category {
			return e.loop, true
		}
	}
	return nil, false
}

// Loops returns all loops in file order.
func (b *Block) Loops() []*Loop {
	var loops []*Loop
	for _, e := range b.entries {
		if e.loop != nil {
			loops = append(loops, e.loop)
		}
	}
	return loops
}

// ReplaceLoop swaps the loop for a category in place, keeping its file
// position. When the category is absent the loop is appended.
func (b *Block) ReplaceLoop(l *Loop) {
	for i, e := range b.entries {
		if e.loop != nil && e.loop.Category() == l.Category() {
			b.entries[i].loop = l
			return
		}
	}
	b.AddLoop(l)
}

// ItemNames returns the data item names in file order, loops excluded.
func (b *Block) ItemNames() []string {
	var names []string
	for _, e := range b.entries {
		if e.loop == nil {
			names = append(names, e.name)
		}
	}
	return names
}

// Loop is an ordered set of named columns of equal length.
type Loop struct {
	names []string
	cols  map[string][]string
}

// NewLoop returns an empty loop.
func NewLoop() *Loop {
	return &Loop{cols: make(map[string][]string)}
}

// AddColumn appends a column. All columns of a loop must have the same
// number of rows.
func (l *Loop) AddColumn(name string, values []string) error {
	if _, ok := l.cols[name]; ok {
		return fmt.Errorf("loop already has column %s", name)
	}
	if len(l.names) > 0 && len(values) != l.Rows() {
		return fmt.Errorf("column %s has %d rows, loop has %d", name, len(values), l.Rows())
	}
	l.names = append(l.names, name)
	l.cols[name] = values
	return nil
}

// SetColumn replaces an existing column's values.
func (l *Loop) SetColumn(name string, values []string) error {
	if _, ok := l.cols[name]; !ok {
		return fmt.Errorf("loop has no column %s", name)
	}
	if len(values) != l.Rows() {
		return fmt.Errorf("column %s has %d rows, loop has %d", name, len(values), l.Rows())
	}
	l.cols[name] = values
	return nil
}

// Column returns a column's values. The slice is shared; callers must
// not modify it.
func (l *Loop) Column(name string) ([]string, bool) {
	vals, ok := l.cols[name]
	return vals, ok
}

// Names returns the column names in declaration order.
func (l *Loop) Names() []string {
	return l.names
}

// Rows returns the number of rows.
func (l *Loop) Rows() int {
	if len(l.names) == 0 {
		return 0
	}
	return len(l.cols[l.names[0]])
}

// AddRow appends one value per column, in declaration order.
func (l *Loop) AddRow(values []string) error {
	if len(values) != len(l.names) {
		return fmt.Errorf("row has %d values, loop has %d columns", len(values), len(l.names))
	}
	for i, name := range l.names {
		l.cols[name] = append(l.cols[name], values[i])
	}
	return nil
}

// Category returns the shared category of the loop's column names: the
// text before the first "." of the first column. Columns of one loop
// conventionally share it.
func (l *Loop) Category() string {
	if len(l.names) == 0 {
		return ""
	}
	name := l.names[0]
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}
