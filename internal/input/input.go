// Package input decodes terminal byte streams into per-frame input state.
package input

import (
	"bufio"
	"bytes"
	"strconv"
)

// Input represents the current frame's input state. Key fields are true when
// the key was pressed at least once since the previous read.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Space  bool
	Enter  bool
	Escape bool

	// Mouse reports, 1-based terminal cells. MouseMoved is false when no
	// report arrived this frame.
	MouseMoved bool
	MouseCol   int
	MouseRow   int
	Click      bool

	// Any is set when at least one byte arrived.
	Any bool

	// Closed is set once the underlying reader has failed.
	Closed bool
}

// Stream delivers input bytes via a channel. Sequences split across reads
// are held back until complete.
type Stream struct {
	ch      chan byte
	pending []byte
	closed  bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking) and
// decodes them.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	if len(rest) > 0 && !s.closed {
		s.pending = append([]byte(nil), rest...)
	}
	in.Closed = s.closed
	return in
}

// Parse decodes buf. An incomplete escape sequence at the end of buf is
// returned as rest so the caller can retry once more bytes arrive.
func Parse(buf []byte) (in Input, rest []byte) {
	in.Any = len(buf) > 0
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b != '\x1b' {
			applyByte(&in, b)
			continue
		}

		// Lone ESC at the end of the read is the Escape key.
		if i+1 >= len(buf) {
			in.Escape = true
			continue
		}
		if buf[i+1] != '[' {
			in.Escape = true
			continue
		}
		if i+2 >= len(buf) {
			return in, buf[i:]
		}

		switch buf[i+2] {
		case 'C':
			in.Right = true
			i += 2
			continue
		case 'D':
			in.Left = true
			i += 2
			continue
		case 'A', 'B':
			i += 2
			continue
		case '<':
			n, ok := parseMouse(&in, buf[i+3:])
			if !ok {
				return in, buf[i:]
			}
			i += 2 + n
			continue
		}

		// Unknown CSI sequence: skip to its final byte.
		end := bytes.IndexFunc(buf[i+2:], func(r rune) bool { return r >= 0x40 && r <= 0x7e })
		if end < 0 {
			return in, buf[i:]
		}
		i += 2 + end
	}
	return in, nil
}

// parseMouse decodes the body of an SGR mouse report, "b;x;y" followed by
// M (press or motion) or m (release). It returns the bytes consumed.
func parseMouse(in *Input, body []byte) (int, bool) {
	end := bytes.IndexAny(body, "Mm")
	if end < 0 {
		return 0, false
	}
	fields := bytes.Split(body[:end], []byte{';'})
	if len(fields) != 3 {
		return end + 1, true
	}
	btn, err1 := strconv.Atoi(string(fields[0]))
	col, err2 := strconv.Atoi(string(fields[1]))
	row, err3 := strconv.Atoi(string(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return end + 1, true
	}

	in.MouseMoved = true
	in.MouseCol = col
	in.MouseRow = row

	const (
		motionBit = 32
		wheelBit  = 64
	)
	press := body[end] == 'M'
	if press && btn&motionBit == 0 && btn&wheelBit == 0 && btn&3 == 0 {
		in.Click = true
	}
	return end + 1, true
}

// applyByte updates the input for a single pressed byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', 0x03: // Ctrl-C
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		in.Left = true
	case 'd', 'D', 'l', 'L':
		in.Right = true
	case ' ':
		in.Space = true
	case '\n', '\r':
		in.Enter = true
	}
}
