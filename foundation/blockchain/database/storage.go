package database

import "errors"

// ErrBlockNotFound is returned when a block number is not in the chain.
var ErrBlockNotFound = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by any
// package providing support for holding the chain. Blocks can only be
// appended. Nothing in the interface allows a committed block to be removed
// or reordered.
type Storage interface {
	Write(block Block) error
	GetBlock(num uint64) (Block, error)
	ForEach() Iterator
	Count() uint64
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}
