// Package codec implements the linear encoding used to serialize signed
// integers into bit strings for external transmission.
//
// Layout of an encoded integer:
//
//	sign    2 bits   "01" for n >= 0, "10" for n < 0
//	width   unary    k ones followed by a single zero
//	payload 4k bits  |n| in big-endian, left-padded to a whole nibble
//
// Zero therefore encodes as "010". Bit strings are Go strings of '0' and
// '1' characters.
package codec

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

var (
	// ErrMalformed is returned when the input is not a valid encoding.
	ErrMalformed = errors.New("malformed linear encoding")

	// ErrOverflow is returned when the encoded magnitude does not fit in int64.
	ErrOverflow = errors.New("linear encoding overflows int64")
)

const (
	positivePrefix = "01"
	negativePrefix = "10"
	maxNibbles     = 16
)

// Linear is the default codec. The zero value is ready to use.
type Linear struct{}

// Encode returns the linear encoding of n.
func (Linear) Encode(n int64) string {
	return Encode(n)
}

// Decode parses a complete linear encoding. Trailing bits are an error.
func (Linear) Decode(s string) (int64, error) {
	return Decode(s)
}

// Encode returns the linear encoding of n.
func Encode(n int64) string {
	var sb strings.Builder

	mag := uint64(n)
	if n < 0 {
		sb.WriteString(negativePrefix)
		mag = -mag // two's complement keeps MinInt64 exact as uint64
	} else {
		sb.WriteString(positivePrefix)
	}

	nibbles := (bits.Len64(mag) + 3) / 4
	sb.WriteString(strings.Repeat("1", nibbles))
	sb.WriteByte('0')

	for i := nibbles*4 - 1; i >= 0; i-- {
		if mag&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Decode parses a complete linear encoding. Trailing bits are an error.
func Decode(s string) (int64, error) {
	n, rest, err := DecodePrefix(s)
	if err != nil {
		return 0, err
	}
	if rest != "" {
		return 0, fmt.Errorf("%w: %d trailing bits", ErrMalformed, len(rest))
	}
	return n, nil
}

// DecodePrefix parses one integer from the front of s and returns the
// unconsumed remainder.
func DecodePrefix(s string) (int64, string, error) {
	if len(s) < 3 {
		return 0, s, fmt.Errorf("%w: %q is too short", ErrMalformed, s)
	}

	var negative bool
	switch s[:2] {
	case positivePrefix:
	case negativePrefix:
		negative = true
	default:
		return 0, s, fmt.Errorf("%w: bad sign prefix %q", ErrMalformed, s[:2])
	}

	pos := 2
	nibbles := 0
	for pos < len(s) && s[pos] == '1' {
		nibbles++
		pos++
	}
	if pos >= len(s) {
		return 0, s, fmt.Errorf("%w: unterminated width", ErrMalformed)
	}
	if s[pos] != '0' {
		return 0, s, fmt.Errorf("%w: invalid bit %q at %d", ErrMalformed, s[pos], pos)
	}
	pos++

	if nibbles > maxNibbles {
		return 0, s, fmt.Errorf("%w: %d nibbles", ErrOverflow, nibbles)
	}
	end := pos + nibbles*4
	if end > len(s) {
		return 0, s, fmt.Errorf("%w: payload needs %d bits, have %d", ErrMalformed, nibbles*4, len(s)-pos)
	}

	var mag uint64
	for ; pos < end; pos++ {
		mag <<= 1
		switch s[pos] {
		case '1':
			mag |= 1
		case '0':
		default:
			return 0, s, fmt.Errorf("%w: invalid bit %q at %d", ErrMalformed, s[pos], pos)
		}
	}

	if negative {
		if mag > 1<<63 {
			return 0, s, ErrOverflow
		}
		return int64(-mag), s[end:], nil
	}
	if mag > 1<<63-1 {
		return 0, s, ErrOverflow
	}
	return int64(mag), s[end:], nil
}
