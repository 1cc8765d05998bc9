// Package streamio provides the endian-aware binary primitive reader shared
// by every decoder in pzmap (lotheader, lotpack, tiledef).
package streamio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrUnexpectedEOF is returned when a read runs off the end of the stream
// before the requested number of bytes could be consumed.
var ErrUnexpectedEOF = errors.New("streamio: unexpected end of file")

// Reader wraps a seekable byte stream and tracks how many bytes have been
// consumed, for diagnostics in decode-failure messages.
//
// Every multi-byte read takes an explicit bigEndian flag; there is no
// stream-wide default. All three binary formats this package supports are
// little-endian end to end, so callers always pass false, but the type
// itself takes no position on that — see spec note on reader endianness.
type Reader struct {
	r         io.ReadSeeker
	br        *bufio.Reader
	bytesRead int64
	peeked    bool
	peekByte  byte
}

// NewReader wraps r for primitive reads.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r, br: bufio.NewReader(r)}
}

// BytesRead returns the number of bytes logically consumed so far
// (peeked-but-not-consumed bytes are not counted).
func (r *Reader) BytesRead() int64 {
	return r.bytesRead
}

func (r *Reader) fill(buf []byte) error {
	if r.peeked && len(buf) > 0 {
		buf[0] = r.peekByte
		r.peeked = false
		if _, err := io.ReadFull(r.br, buf[1:]); err != nil {
			return translateEOF(err)
		}
		r.bytesRead += int64(len(buf))
		return nil
	}
	if _, err := io.ReadFull(r.br, buf); err != nil {
		return translateEOF(err)
	}
	r.bytesRead += int64(len(buf))
	return nil
}

func translateEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}
	return err
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	if err := r.fill(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// PeekByte returns the next byte without advancing the logical read
// position. A subsequent ReadByte (or any other read) returns the same
// byte. BytesRead is not incremented by a peek.
func (r *Reader) PeekByte() (byte, error) {
	if r.peeked {
		return r.peekByte, nil
	}
	var buf [1]byte
	if _, err := io.ReadFull(r.br, buf[:]); err != nil {
		return 0, translateEOF(err)
	}
	r.peeked = true
	r.peekByte = buf[0]
	return buf[0], nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.fill(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (r *Reader) byteOrder(bigEndian bool) func([]byte) uint64 {
	if bigEndian {
		return func(b []byte) uint64 {
			var v uint64
			for _, c := range b {
				v = v<<8 | uint64(c)
			}
			return v
		}
	}
	return func(b []byte) uint64 {
		var v uint64
		for i := len(b) - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
}

// ReadInt16 reads a two's-complement 16-bit integer.
func (r *Reader) ReadInt16(bigEndian bool) (int16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return int16(r.byteOrder(bigEndian)(buf)), nil
}

// ReadInt32 reads a two's-complement 32-bit integer.
func (r *Reader) ReadInt32(bigEndian bool) (int32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(r.byteOrder(bigEndian)(buf)), nil
}

// ReadInt64 reads a two's-complement 64-bit integer.
func (r *Reader) ReadInt64(bigEndian bool) (int64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return int64(r.byteOrder(bigEndian)(buf)), nil
}

// ReadSingle reads an IEEE-754 binary32 float.
func (r *Reader) ReadSingle(bigEndian bool) (float32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(r.byteOrder(bigEndian)(buf))), nil
}

// ReadDouble reads an IEEE-754 binary64 float.
func (r *Reader) ReadDouble(bigEndian bool) (float64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.byteOrder(bigEndian)(buf)), nil
}

// ReadString reads UTF-8 bytes up to, and discarding, an ASCII 0x0A
// newline. There is no length prefix; an embedded carriage return is kept
// verbatim. Running off the end of the stream before a newline is an error.
func (r *Reader) ReadString() (string, error) {
	var buf []byte
	if r.peeked {
		first := r.peekByte
		r.peeked = false
		r.bytesRead++
		if first == '\n' {
			return "", nil
		}
		buf = append(buf, first)
	}
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			return "", translateEOF(err)
		}
		r.bytesRead++
		if b == '\n' {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), nil
}

// Seek repositions the underlying stream. Any pending peek is discarded and
// the internal buffer is reset so subsequent reads reflect the new
// position. BytesRead is not adjusted by a seek; it is a consumption
// counter, not a position.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	r.peeked = false
	pos, err := r.r.Seek(offset, whence)
	if err != nil {
		return pos, fmt.Errorf("streamio: seek: %w", err)
	}
	r.br.Reset(r.r)
	return pos, nil
}
