// Package trit implements a bijective encoding of arbitrary bytes into a
// fixed ternary text alphabet, so binary blobs can travel inside text
// frames without colliding with the frame delimiters.
//
// Each byte maps to exactly six trits from the alphabet "012"
// (3^6 = 729 >= 256), so encoded length is always a multiple of six and
// the original byte length is exactly recoverable. Decode(Encode(b)) == b
// holds for every byte sequence, including empty and high-entropy input.
package trit

import (
	"errors"
	"fmt"
	"strings"
)

// TritsPerByte is the fixed group size: six trits encode one byte.
const TritsPerByte = 6

// Alphabet is the ternary text alphabet, in digit order.
const Alphabet = "012"

// ErrDecode indicates malformed trit text: characters outside the
// alphabet, a length that is not a multiple of six, or a group outside
// the byte range.
var ErrDecode = errors.New("trit: decode error")

// Encode converts bytes to trit text. The empty input encodes to the
// empty string.
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(data) * TritsPerByte)

	for _, b := range data {
		// Most significant trit first, zero-padded to six digits.
		v := int(b)
		var group [TritsPerByte]byte
		for i := TritsPerByte - 1; i >= 0; i-- {
			group[i] = Alphabet[v%3]
			v /= 3
		}
		sb.Write(group[:])
	}

	return sb.String()
}

// Decode converts trit text back to bytes. It fails with an error
// wrapping ErrDecode on any malformed input.
func Decode(text string) ([]byte, error) {
	if text == "" {
		return []byte{}, nil
	}
	if len(text)%TritsPerByte != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d", ErrDecode, len(text), TritsPerByte)
	}

	out := make([]byte, 0, len(text)/TritsPerByte)
	for i := 0; i < len(text); i += TritsPerByte {
		v := 0
		for j := 0; j < TritsPerByte; j++ {
			c := text[i+j]
			if c < '0' || c > '2' {
				return nil, fmt.Errorf("%w: invalid character %q at offset %d", ErrDecode, c, i+j)
			}
			v = v*3 + int(c-'0')
		}
		if v > 255 {
			// Padding range check: 729 group values exist but only 256
			// are valid byte encodings.
			return nil, fmt.Errorf("%w: group at offset %d out of byte range (%d)", ErrDecode, i, v)
		}
		out = append(out, byte(v))
	}

	return out, nil
}
