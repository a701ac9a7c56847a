// Package lzo1x implements an LZO1X-1 compatible block compressor.
//
// The output is a plain LZO1X stream terminated by the standard end marker,
// so any LZO1X decompressor (lzo1x_decompress_safe, or
// github.com/anchore/go-lzo in Go) can expand it.
//
// The matcher is greedy and single-pass: every position is hashed on its
// first four bytes into a dictionary of recent positions, and the longest
// run behind a hit is emitted as one match.
package lzo1x

import (
	"encoding/binary"
	"sync"
)

const (
	dictBits = 14
	dictSize = 1 << dictBits

	minMatch = 4

	m2MaxLen    = 8
	m2MaxOffset = 0x0800
	m3MaxLen    = 33
	m3MaxOffset = 0x4000
	m4MaxLen    = 9
	m4MaxOffset = 0xbfff

	m3Marker = 0x20
	m4Marker = 0x10

	// First-byte literal codes 18..255 carry runs of 1..238 literals.
	maxFirstLiteral = 238
)

// MaxCompressedLen returns the scratch capacity reserved for compressing n
// bytes. Compress grows its output past it if needed.
func MaxCompressedLen(n int) int {
	return n + n/64 + 16 + 3
}

// Compressor holds the match dictionary. One Compressor may be shared by
// several goroutines; calls are serialized.
type Compressor struct {
	mu   sync.Mutex
	dict []int32
}

// NewCompressor returns a Compressor with its own dictionary.
func NewCompressor() *Compressor {
	return &Compressor{dict: make([]int32, dictSize)}
}

// Compress returns the LZO1X encoding of src.
func (c *Compressor) Compress(src []byte) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dict == nil {
		c.dict = make([]int32, dictSize)
	}
	// Entries hold position+1; zero means empty.
	clear(c.dict)

	n := len(src)
	out := make([]byte, 0, MaxCompressedLen(n))
	lit := 0
	i := 0
	for i+minMatch <= n {
		v := binary.LittleEndian.Uint32(src[i:])
		h := hash(v)
		cand := int(c.dict[h]) - 1
		c.dict[h] = int32(i + 1)

		if cand < 0 || i-cand > m4MaxOffset || binary.LittleEndian.Uint32(src[cand:]) != v {
			i++
			continue
		}

		length := minMatch
		for i+length < n && src[cand+length] == src[i+length] {
			length++
		}

		out = appendLiterals(out, src[lit:i])
		out = appendMatch(out, i-cand, length)
		i += length
		lit = i
	}

	out = appendLiterals(out, src[lit:])
	return append(out, m4Marker|1, 0, 0)
}

func hash(v uint32) uint32 {
	return (v * 0x1e35a7bd) >> (32 - dictBits)
}

// appendLiterals emits a run of literals. A run that follows a match and is
// at most three bytes long is folded into the state bits of that match.
func appendLiterals(out, lit []byte) []byte {
	t := len(lit)
	switch {
	case t == 0:
		return out
	case len(out) == 0 && t <= maxFirstLiteral:
		out = append(out, byte(17+t))
	case len(out) > 0 && t <= 3:
		out[len(out)-2] |= byte(t)
	case t <= 18:
		out = append(out, byte(t-3))
	default:
		out = append(out, 0)
		out = appendCount(out, t-18)
	}
	return append(out, lit...)
}

func appendMatch(out []byte, dist, length int) []byte {
	switch {
	case length <= m2MaxLen && dist <= m2MaxOffset:
		d := dist - 1
		return append(out, byte((length-1)<<5|(d&7)<<2), byte(d>>3))

	case dist <= m3MaxOffset:
		if length <= m3MaxLen {
			out = append(out, byte(m3Marker|(length-2)))
		} else {
			out = append(out, m3Marker)
			out = appendCount(out, length-m3MaxLen)
		}
		d := dist - 1
		return append(out, byte(d<<2), byte(d>>6))

	default:
		d := dist - m3MaxOffset
		hi := byte((d >> 11) & 8)
		if length <= m4MaxLen {
			out = append(out, m4Marker|hi|byte(length-2))
		} else {
			out = append(out, m4Marker|hi)
			out = appendCount(out, length-m4MaxLen)
		}
		return append(out, byte(d<<2), byte(d>>6))
	}
}

// appendCount writes an extended length: one zero byte per 255, then the
// non-zero remainder.
func appendCount(out []byte, n int) []byte {
	for n > 255 {
		out = append(out, 0)
		n -= 255
	}
	return append(out, byte(n))
}
