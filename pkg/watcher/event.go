package watcher

import (
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change reported for a path
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// String returns a human-readable representation of the operation
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	case OpChmod:
		return "chmod"
	default:
		return "unknown"
	}
}

// Event is one changed path
type Event struct {
	Path string
	Op   Op
}

// Batch is a group of events delivered together
type Batch []Event

// Paths returns the event paths in order
func (b Batch) Paths() []string {
	paths := make([]string, len(b))
	for i, ev := range b {
		paths[i] = ev.Path
	}
	return paths
}

// Source delivers batches of change events until closed. Batches is closed
// after Close returns.
type Source interface {
	Batches() <-chan Batch
	Close() error
}

// IsRootRelated reports whether any segment of path, split on either
// separator, starts with prefix
func IsRootRelated(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, segment := range segments {
		if strings.HasPrefix(segment, prefix) {
			return true
		}
	}
	return false
}

// Relevant reports whether any event in the batch is root related
func Relevant(batch Batch, prefix string) bool {
	for _, ev := range batch {
		if IsRootRelated(ev.Path, prefix) {
			return true
		}
	}
	return false
}

func opFromFsnotify(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Write):
		return OpWrite
	default:
		return OpChmod
	}
}
