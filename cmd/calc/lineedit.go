// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// lineEditor reads one line at a time from a terminal in raw mode. recall
// holds previous expressions, newest first, for the Up and Down keys.
type lineEditor struct {
	in     io.Reader
	out    io.Writer
	recall []string

	line   []rune
	cursor int
	pos    int // index into recall, -1 while editing a fresh line
}

// readLine returns the line and whether EOF was encountered.
func (e *lineEditor) readLine() (string, bool) {
	e.line = e.line[:0]
	e.cursor = 0
	e.pos = -1

	for {
		b, ok := e.readByte()
		if !ok {
			return string(e.line), true
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(e.line) == 0 {
				return "", true
			}
			e.deleteAt(e.cursor)

		case 0x03: // Ctrl+C
			fmt.Fprint(e.out, "^C\r\n")
			return "", false

		case 0x0d, 0x0a:
			fmt.Fprint(e.out, "\r\n")
			return string(e.line), false

		case 0x7f, 0x08: // Backspace
			if e.cursor > 0 {
				e.cursor--
				fmt.Fprint(e.out, "\b")
				e.deleteAt(e.cursor)
			}

		case 0x1b:
			e.escape()

		case 0x01: // Ctrl+A
			if e.cursor > 0 {
				fmt.Fprintf(e.out, "\x1b[%dD", e.cursor)
				e.cursor = 0
			}

		case 0x05: // Ctrl+E
			if e.cursor < len(e.line) {
				fmt.Fprintf(e.out, "\x1b[%dC", len(e.line)-e.cursor)
				e.cursor = len(e.line)
			}

		case 0x0b: // Ctrl+K
			if e.cursor < len(e.line) {
				e.line = e.line[:e.cursor]
				fmt.Fprint(e.out, "\x1b[K")
			}

		case 0x15: // Ctrl+U
			if e.cursor > 0 {
				fmt.Fprintf(e.out, "\x1b[%dD", e.cursor)
				e.line = e.line[e.cursor:]
				e.cursor = 0
				e.redraw()
			}

		default:
			if b >= 0x20 && b < 0x7f {
				e.insert(rune(b))
			} else if b >= 0x80 {
				e.insert(e.readRune(b))
			}
		}
	}
}

// escape handles the bytes following ESC: arrows and the Delete key.
func (e *lineEditor) escape() {
	b, ok := e.readByte()
	if !ok || b != '[' {
		return
	}
	b, ok = e.readByte()
	if !ok {
		return
	}

	switch b {
	case 'A':
		if e.pos+1 < len(e.recall) {
			e.pos++
			e.replace(e.recall[e.pos])
		}
	case 'B':
		if e.pos > 0 {
			e.pos--
			e.replace(e.recall[e.pos])
		} else if e.pos == 0 {
			e.pos = -1
			e.replace("")
		}
	case 'C':
		if e.cursor < len(e.line) {
			e.cursor++
			fmt.Fprint(e.out, "\x1b[C")
		}
	case 'D':
		if e.cursor > 0 {
			e.cursor--
			fmt.Fprint(e.out, "\x1b[D")
		}
	case '3': // ESC [ 3 ~
		if b, ok := e.readByte(); ok && b == '~' && e.cursor < len(e.line) {
			e.deleteAt(e.cursor)
		}
	}
}

func (e *lineEditor) insert(r rune) {
	line := make([]rune, 0, len(e.line)+1)
	line = append(line, e.line[:e.cursor]...)
	line = append(line, r)
	line = append(line, e.line[e.cursor:]...)
	e.line = line
	e.cursor++
	fmt.Fprint(e.out, string(r))
	if e.cursor < len(e.line) {
		e.redraw()
	}
}

func (e *lineEditor) deleteAt(i int) {
	e.line = append(e.line[:i], e.line[i+1:]...)
	e.redraw()
}

// replace swaps the whole line for text and leaves the cursor at its end.
func (e *lineEditor) replace(text string) {
	if e.cursor > 0 {
		fmt.Fprintf(e.out, "\x1b[%dD", e.cursor)
	}
	e.line = []rune(text)
	e.cursor = 0
	e.redraw()
	if len(e.line) > 0 {
		fmt.Fprintf(e.out, "\x1b[%dC", len(e.line))
	}
	e.cursor = len(e.line)
}

// redraw clears from the cursor and reprints the rest of the line.
func (e *lineEditor) redraw() {
	fmt.Fprint(e.out, "\x1b[K")
	fmt.Fprint(e.out, string(e.line[e.cursor:]))
	if e.cursor < len(e.line) {
		fmt.Fprintf(e.out, "\x1b[%dD", len(e.line)-e.cursor)
	}
}

func (e *lineEditor) readByte() (byte, bool) {
	var buf [1]byte
	n, err := e.in.Read(buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return buf[0], true
}

// readRune completes a UTF-8 sequence that starts with lead.
func (e *lineEditor) readRune(lead byte) rune {
	n := 0
	switch {
	case lead&0xE0 == 0xC0:
		n = 1
	case lead&0xF0 == 0xE0:
		n = 2
	case lead&0xF8 == 0xF0:
		n = 3
	}
	buf := []byte{lead}
	for i := 0; i < n; i++ {
		b, ok := e.readByte()
		if !ok {
			break
		}
		buf = append(buf, b)
	}
	r, _ := utf8.DecodeRune(buf)
	return r
}
