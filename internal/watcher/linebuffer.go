package watcher

import "bytes"

// LineBuffer incrementally splits a byte stream into lines. Feed returns
// the complete lines found in the chunk (plus any previously buffered
// prefix); the trailing partial line stays buffered until the newline
// arrives. Bytes are treated as UTF-8 throughout, which '\n' splitting
// never breaks mid-rune.
type LineBuffer struct {
	buf []byte
}

// Feed appends chunk and returns every newly completed line, without the
// trailing newline.
func (b *LineBuffer) Feed(chunk []byte) []string {
	b.buf = append(b.buf, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(b.buf, '\n')
		if i < 0 {
			return lines
		}
		lines = append(lines, string(b.buf[:i]))
		b.buf = b.buf[i+1:]
	}
}

// Pending returns the buffered partial line.
func (b *LineBuffer) Pending() string {
	return string(b.buf)
}
