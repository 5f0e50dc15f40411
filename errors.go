// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ddkit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyKeys is returned when a morphism such as Insert or Remove is
// constructed with an empty key list; the empty list has no useful
// meaning as an insertion/removal set (§7, construction precondition).
var ErrEmptyKeys = errors.New("ddkit: empty key list in morphism constructor")

// ErrDuplicateKey is returned when an MFDD assignment list names the
// same key twice.
var ErrDuplicateKey = errors.New("ddkit: duplicate key in assignment list")

// ErrForeignHandle describes a Node originating from a different
// Factory than the receiver. Mixing handles across factories is
// undefined behavior (§7); no operation of this package checks for
// it, and none returns this error.
var ErrForeignHandle = errors.New("ddkit: node handle does not belong to this factory")

// wrapf attaches call-site context to a sentinel error without losing
// errors.Is compatibility.
func wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrap(err, fmt.Sprintf(format, args...))
}
