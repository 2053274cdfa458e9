package stego

import (
	"errors"
	"fmt"
)

// ErrNoHiddenData is returned by Extract when a full carrier scan finds no
// delimiter. It is a result state distinct from recovering an empty message,
// which ends with the delimiter at offset zero.
var ErrNoHiddenData = errors.New("no hidden data found in carrier")

// CapacityError reports a payload that does not fit into a carrier. Both
// figures are in bits so the caller can pick a larger carrier or a shorter
// message.
type CapacityError struct {
	RequiredBits  int
	AvailableBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message too large for carrier: required %d bits, available %d bits",
		e.RequiredBits, e.AvailableBits)
}
