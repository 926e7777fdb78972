package app

import "bytes"

// maxLineLength bounds a line that never sees its newline.
const maxLineLength = 4096

// lineSplitter accumulates raw bytes and yields newline-terminated lines.
// The terminator (and a preceding CR) is not part of the yielded line.
type lineSplitter struct {
	pending []byte
}

// Feed appends p and returns every line completed by it. A partial line
// longer than maxLineLength is yielded as-is so memory stays bounded.
func (s *lineSplitter) Feed(p []byte) []string {
	s.pending = append(s.pending, p...)

	var lines []string
	for {
		i := bytes.IndexByte(s.pending, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(bytes.TrimSuffix(s.pending[:i], []byte{'\r'})))
		n := copy(s.pending, s.pending[i+1:])
		s.pending = s.pending[:n]
	}

	if len(s.pending) > maxLineLength {
		lines = append(lines, string(s.pending))
		s.pending = s.pending[:0]
	}
	return lines
}

// Pending returns the number of buffered bytes without a terminator.
func (s *lineSplitter) Pending() int {
	return len(s.pending)
}
