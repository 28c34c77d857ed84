// Package frame implements the canonical text serialization used to
// exchange prompts, answers and metadata between orchestration stages.
//
// A frame is an ordered header of key/value pairs plus an ordered list of
// payload segments. The wire form is text delimited by the ASCII
// separator control characters, which are reserved: they may not appear
// in keys, values or segments. Binary data is embedded by trit-encoding
// it first (see the trit package).
//
// Header pairs are sorted by key before serialization. Canonical order is
// part of the format: two logically equal frames serialize to
// byte-identical text no matter the insertion order, and repeated
// serialization of the same frame is always byte-identical.
package frame

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/loomworks/loom-cli/internal/protocol/trit"
)

// Wire delimiters. All are reserved from frame content.
const (
	StartMarker = "\x02" // STX opens a frame
	EndMarker   = "\x03" // ETX closes a frame
	sectionSep  = "\x1d" // GS separates header from payload
	pairSep     = "\x1e" // RS separates header pairs
	kvSep       = "\x1f" // US separates a key from its value
	segmentSep  = "\x1c" // FS separates payload segments
)

// reserved is every rune that frame content may not contain.
const reserved = StartMarker + EndMarker + sectionSep + pairSep + kvSep + segmentSep

// ErrParse indicates malformed frame text.
var ErrParse = errors.New("frame: parse error")

// Pair is one header key/value pair.
type Pair struct {
	Key   string
	Value string
}

// Frame is one protocol unit: an ordered header and an ordered payload.
// Header order is normalized to canonical (key-sorted) form on
// serialization; payload order is preserved as-is.
type Frame struct {
	Header  []Pair
	Payload []string
}

// Set replaces the value of the first pair with the given key, or
// appends a new pair when the key is absent.
func (f *Frame) Set(key, value string) {
	for i := range f.Header {
		if f.Header[i].Key == key {
			f.Header[i].Value = value
			return
		}
	}
	f.Header = append(f.Header, Pair{Key: key, Value: value})
}

// Get returns the value of the first pair with the given key.
func (f Frame) Get(key string) (string, bool) {
	for _, p := range f.Header {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Append adds a payload segment.
func (f *Frame) Append(segment string) {
	f.Payload = append(f.Payload, segment)
}

// AppendBinary trit-encodes arbitrary bytes into a payload segment.
// The resulting segment uses only the trit alphabet and can never
// collide with the frame delimiters.
func (f *Frame) AppendBinary(data []byte) {
	f.Payload = append(f.Payload, trit.Encode(data))
}

// Binary decodes payload segment i as trit-encoded bytes.
func (f Frame) Binary(i int) ([]byte, error) {
	if i < 0 || i >= len(f.Payload) {
		return nil, fmt.Errorf("%w: no payload segment %d", ErrParse, i)
	}
	return trit.Decode(f.Payload[i])
}

// Equal reports logical equality: same payload and same header content
// under canonical ordering.
func (f Frame) Equal(other Frame) bool {
	if len(f.Payload) != len(other.Payload) || len(f.Header) != len(other.Header) {
		return false
	}
	for i := range f.Payload {
		if f.Payload[i] != other.Payload[i] {
			return false
		}
	}
	a, b := canonicalHeader(f.Header), canonicalHeader(other.Header)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Serialize emits the canonical wire form. It fails when any key, value
// or segment contains a reserved delimiter character.
func Serialize(f Frame) (string, error) {
	header := canonicalHeader(f.Header)

	var sb strings.Builder
	sb.WriteString(StartMarker)

	for i, p := range header {
		if strings.ContainsAny(p.Key, reserved) {
			return "", fmt.Errorf("header key %q contains a reserved delimiter", p.Key)
		}
		if strings.ContainsAny(p.Value, reserved) {
			return "", fmt.Errorf("header value for %q contains a reserved delimiter", p.Key)
		}
		if i > 0 {
			sb.WriteString(pairSep)
		}
		sb.WriteString(p.Key)
		sb.WriteString(kvSep)
		sb.WriteString(p.Value)
	}

	sb.WriteString(sectionSep)

	for i, seg := range f.Payload {
		if strings.ContainsAny(seg, reserved) {
			return "", fmt.Errorf("payload segment %d contains a reserved delimiter", i)
		}
		if i > 0 {
			sb.WriteString(segmentSep)
		}
		sb.WriteString(seg)
	}

	sb.WriteString(EndMarker)
	return sb.String(), nil
}

// Parse reconstructs a frame from wire text. Header content is preserved
// exactly; order is normalized to canonical form by the next Serialize.
//
// An all-empty payload section parses to zero segments, so a frame whose
// only segment is the empty string does not survive a round trip as a
// distinct shape. Callers that need a placeholder segment should encode
// one explicitly.
func Parse(text string) (Frame, error) {
	if !strings.HasPrefix(text, StartMarker) {
		return Frame{}, fmt.Errorf("%w: missing start marker", ErrParse)
	}
	if !strings.HasSuffix(text, EndMarker) || len(text) < len(StartMarker)+len(EndMarker) {
		return Frame{}, fmt.Errorf("%w: missing end marker", ErrParse)
	}

	body := text[len(StartMarker) : len(text)-len(EndMarker)]

	sections := strings.Split(body, sectionSep)
	if len(sections) != 2 {
		return Frame{}, fmt.Errorf("%w: expected one header/payload separator, found %d", ErrParse, len(sections)-1)
	}

	var f Frame

	if sections[0] != "" {
		for _, raw := range strings.Split(sections[0], pairSep) {
			key, value, ok := strings.Cut(raw, kvSep)
			if !ok {
				return Frame{}, fmt.Errorf("%w: header pair %q has no key/value separator", ErrParse, raw)
			}
			f.Header = append(f.Header, Pair{Key: key, Value: value})
		}
	}

	if sections[1] != "" {
		f.Payload = strings.Split(sections[1], segmentSep)
	}

	return f, nil
}

// canonicalHeader returns the pairs sorted by key. The sort is stable so
// duplicate keys keep their relative order.
func canonicalHeader(pairs []Pair) []Pair {
	out := make([]Pair, len(pairs))
	copy(out, pairs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
