package tree

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/benz9527/rbmap/lib/infra"
)

type RBErrKind uint8

const (
	ErrKindUnknown RBErrKind = iota
	ErrKindDuplicateKey
	ErrKindEmptyTree
	ErrKindIteratorInvalidated
)

func (kind RBErrKind) String() string {
	switch kind {
	case ErrKindDuplicateKey:
		return "DuplicateKey"
	case ErrKindEmptyTree:
		return "EmptyTree"
	case ErrKindIteratorInvalidated:
		return "IteratorInvalidated"
	default:
	}
	return "Unknown"
}

var (
	ErrDuplicateKey        = errors.New("[rbtree] duplicate key")
	ErrEmptyTree           = errors.New("[rbtree] empty tree")
	ErrIteratorInvalidated = errors.New("[rbtree] iterator invalidated by tree mutation")
)

// DuplicateKeyError carries the rejected key. It matches ErrDuplicateKey.
type DuplicateKeyError[K infra.OrderedKey] struct {
	Key K
}

func (err *DuplicateKeyError[K]) Error() string {
	return fmt.Sprintf("[rbtree] attempt to insert duplicate key '%v'", err.Key)
}

func (err *DuplicateKeyError[K]) Unwrap() error {
	return ErrDuplicateKey
}

func (err *DuplicateKeyError[K]) Kind() RBErrKind {
	return ErrKindDuplicateKey
}

// KindOf classifies an error returned by the tree or its iterators.
func KindOf(err error) RBErrKind {
	switch {
	case err == nil:
		return ErrKindUnknown
	case errors.Is(err, ErrDuplicateKey):
		return ErrKindDuplicateKey
	case errors.Is(err, ErrEmptyTree):
		return ErrKindEmptyTree
	case errors.Is(err, ErrIteratorInvalidated):
		return ErrKindIteratorInvalidated
	default:
	}
	return ErrKindUnknown
}
