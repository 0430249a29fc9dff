// Package lzhuf implements the LZSS plus adaptive Huffman coding used for
// compressed chunks of .db archive headers.
//
// The window is 4096 bytes, pre-filled with spaces, and matches are 3 to
// 60 bytes long. Literals and match lengths share one adaptive Huffman
// tree of 314 symbols; match positions use a fixed prefix code for their
// upper six bits followed by six raw bits.
package lzhuf

import (
	"errors"
	"fmt"
)

const (
	windowSize = 4096
	maxMatch   = 60
	threshold  = 2
	symbols    = 256 - threshold + maxMatch
	tableSize  = symbols*2 - 1
	root       = tableSize - 1
	maxFreq    = 0x8000

	// maxExpansion bounds output bytes per input byte. A match costs at
	// least ten bits for maxMatch bytes.
	maxExpansion = 64
	// overrunLimit is how many zero bits past the end of src are read as
	// padding.
	overrunLimit = 16
)

// ErrCorrupt is returned when a stream ends before the declared size is
// decoded, or declares a size src cannot hold.
var ErrCorrupt = errors.New("lzhuf: corrupt stream")

// positionLengths is the bit length of the prefix code for each upper
// six bits of a match position.
var positionLengths = [64]uint8{
	3, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 6, 6, 6, 6,
	6, 6, 6, 6, 6, 6, 6, 6, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// positionCodes holds the prefix codes left aligned in a byte; decodeUpper
// and decodeLength map a leading byte back to the upper bits and the
// code length.
var positionCodes, decodeUpper, decodeLength = buildPositionTables()

func buildPositionTables() (codes [64]uint8, upper, length [256]uint8) {
	next := 0
	for v, l := range positionLengths {
		codes[v] = uint8(next) //nolint:gosec // next stays below 256
		span := 256 >> l
		for i := next; i < next+span; i++ {
			upper[i] = uint8(v) //nolint:gosec // v < 64
			length[i] = l
		}
		next += span
	}
	return codes, upper, length
}

// tree is the adaptive Huffman model shared by encoder and decoder.
type tree struct {
	freq   [tableSize + 1]int
	parent [tableSize + symbols]int
	son    [tableSize]int
}

func newTree() *tree {
	t := &tree{}
	for i := range symbols {
		t.freq[i] = 1
		t.son[i] = i + tableSize
		t.parent[i+tableSize] = i
	}
	for i, j := 0, symbols; j <= root; i, j = i+2, j+1 {
		t.freq[j] = t.freq[i] + t.freq[i+1]
		t.son[j] = i
		t.parent[i] = j
		t.parent[i+1] = j
	}
	t.freq[tableSize] = 0xffff
	t.parent[root] = 0
	return t
}

// rebuild halves every leaf frequency and rebuilds the tree once the
// root frequency saturates.
func (t *tree) rebuild() {
	j := 0
	for i := range tableSize {
		if t.son[i] >= tableSize {
			t.freq[j] = (t.freq[i] + 1) / 2
			t.son[j] = t.son[i]
			j++
		}
	}
	for i, j := 0, symbols; j < tableSize; i, j = i+2, j+1 {
		f := t.freq[i] + t.freq[i+1]
		k := j - 1
		for f < t.freq[k] {
			k--
		}
		k++
		copy(t.freq[k+1:j+1], t.freq[k:j])
		t.freq[k] = f
		copy(t.son[k+1:j+1], t.son[k:j])
		t.son[k] = i
	}
	for i := range tableSize {
		k := t.son[i]
		t.parent[k] = i
		if k < tableSize {
			t.parent[k+1] = i
		}
	}
}

// update increments the frequency of symbol c and restores the sibling
// ordering along its path to the root.
func (t *tree) update(c int) {
	if t.freq[root] == maxFreq {
		t.rebuild()
	}
	c = t.parent[c+tableSize]
	for {
		t.freq[c]++
		k := t.freq[c]
		if l := c + 1; k > t.freq[l] {
			for k > t.freq[l+1] {
				l++
			}
			t.freq[c] = t.freq[l]
			t.freq[l] = k

			i := t.son[c]
			t.parent[i] = l
			if i < tableSize {
				t.parent[i+1] = l
			}
			j := t.son[l]
			t.son[l] = i
			t.parent[j] = c
			if j < tableSize {
				t.parent[j+1] = c
			}
			t.son[c] = j
			c = l
		}
		if c = t.parent[c]; c == 0 {
			return
		}
	}
}

type bitReader struct {
	src     []byte
	pos     int
	bit     uint
	overrun int
}

// readBit returns the next bit, most significant first. Reads past the
// end yield zero bits, as the reference encoder leaves its final byte
// partially filled.
func (b *bitReader) readBit() int {
	if b.pos >= len(b.src) {
		b.overrun++
		return 0
	}
	v := int(b.src[b.pos]>>(7-b.bit)) & 1
	if b.bit++; b.bit == 8 {
		b.bit = 0
		b.pos++
	}
	return v
}

func (b *bitReader) readBits(n int) int {
	v := 0
	for range n {
		v = v<<1 | b.readBit()
	}
	return v
}

// Decode expands src into exactly size bytes.
func Decode(src []byte, size int) ([]byte, error) {
	if size < 0 || size > (len(src)+overrunLimit)*maxExpansion {
		return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrCorrupt, len(src), size)
	}
	t := newTree()
	in := &bitReader{src: src}
	var window [windowSize]byte
	for i := range windowSize - maxMatch {
		window[i] = ' '
	}
	r := windowSize - maxMatch

	out := make([]byte, 0, size)
	for len(out) < size {
		c := t.son[root]
		for c < tableSize {
			c = t.son[c+in.readBit()]
		}
		c -= tableSize
		t.update(c)

		if c < 256 {
			out = append(out, byte(c))
			window[r] = byte(c)
			r = (r + 1) & (windowSize - 1)
		} else {
			lead := in.readBits(8)
			pos := int(decodeUpper[lead])<<6 | (lead<<(decodeLength[lead]-2)|in.readBits(int(decodeLength[lead])-2))&0x3f
			start := (r - pos - 1) & (windowSize - 1)
			n := c - 255 + threshold
			for k := 0; k < n && len(out) < size; k++ {
				b := window[(start+k)&(windowSize-1)]
				out = append(out, b)
				window[r] = b
				r = (r + 1) & (windowSize - 1)
			}
		}
		if in.overrun > overrunLimit {
			return nil, fmt.Errorf("%w: input exhausted after %d of %d bytes", ErrCorrupt, len(out), size)
		}
	}
	return out, nil
}

type bitWriter struct {
	out  []byte
	acc  byte
	used uint
}

func (b *bitWriter) writeBit(v int) {
	b.acc |= byte(v&1) << (7 - b.used)
	if b.used++; b.used == 8 {
		b.out = append(b.out, b.acc)
		b.acc, b.used = 0, 0
	}
}

func (b *bitWriter) writeBits(v, n int) {
	for i := n - 1; i >= 0; i-- {
		b.writeBit(v >> i)
	}
}

func (b *bitWriter) flush() []byte {
	if b.used > 0 {
		b.out = append(b.out, b.acc)
		b.acc, b.used = 0, 0
	}
	return b.out
}

func (t *tree) encode(w *bitWriter, c int) {
	var path []int
	for k := t.parent[c+tableSize]; k != root; k = t.parent[k] {
		path = append(path, k&1)
	}
	for i := len(path) - 1; i >= 0; i-- {
		w.writeBit(path[i])
	}
	t.update(c)
}

// Encode compresses data with a greedy longest match search. Decode(
// Encode(data), len(data)) returns data.
func Encode(data []byte) []byte {
	t := newTree()
	w := &bitWriter{}
	for i := 0; i < len(data); {
		length, dist := longestMatch(data, i)
		if length <= threshold {
			t.encode(w, int(data[i]))
			i++
			continue
		}
		t.encode(w, length+255-threshold)
		pos := dist - 1
		upper := pos >> 6
		w.writeBits(int(positionCodes[upper])>>(8-positionLengths[upper]), int(positionLengths[upper]))
		w.writeBits(pos&0x3f, 6)
		i += length
	}
	return w.flush()
}

// longestMatch finds the longest earlier occurrence of data[i:] that the
// decoder window still holds.
func longestMatch(data []byte, i int) (length, dist int) {
	limit := min(maxMatch, len(data)-i)
	for d := 1; d <= min(i, windowSize-maxMatch); d++ {
		n := 0
		for n < limit && data[i-d+n] == data[i+n] {
			n++
		}
		if n > length {
			length, dist = n, d
			if n == limit {
				break
			}
		}
	}
	return length, dist
}
