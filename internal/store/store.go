// Package store provides persistence for form blocks. A block is a named
// snapshot of an entire form store; the block primitives replace, persist
// or erase one block at a time.
package store

import (
	"errors"

	"mooers.net/trac64/internal/form"
)

// ErrNoBlock is returned when loading or erasing a block that was never
// saved.
var ErrNoBlock = errors.New("no such block")

// blockStore is the shape both implementations satisfy; the evaluator
// declares its own copy of this interface on the consumer side.
type blockStore interface {
	LoadAll(block string) ([]form.Image, error)
	SaveAll(block string, imgs []form.Image) error
	Erase(block string) error
}

var (
	_ blockStore = (*SQLite)(nil)
	_ blockStore = (*Memory)(nil)
)
