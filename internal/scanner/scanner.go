// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for arithmetic expressions.
package scanner

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/token"
)

// Scanner tokenizes expression input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	prev   token.Kind // kind of the last scanned token
	seen   bool       // whether any token has been scanned
	pos    int        // runes consumed so far
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Tokenize scans the whole of text. It fails with an UnknownToken error on
// the first character or identifier it does not recognize.
func Tokenize(text string) ([]token.Token, error) {
	s := NewFromString(text)
	var tokens []token.Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token from the input. At end of input it returns a
// token of kind EOF.
func (s *Scanner) Next() (token.Token, error) {
	tok, err := s.scan()
	if err != nil {
		return token.Token{}, err
	}
	if tok.Kind != token.EOF {
		s.prev = tok.Kind
		s.seen = true
	}
	return tok, nil
}

func (s *Scanner) scan() (token.Token, error) {
	for {
		r, err := s.read()
		if err == io.EOF {
			return token.Token{Kind: token.EOF}, nil
		}
		if err != nil {
			return token.Token{}, err
		}

		switch {
		case unicode.IsSpace(r):
			continue

		case isDigit(r):
			return s.scanNumber(r)

		case r == '.':
			next, err := s.read()
			if err == nil && isDigit(next) {
				s.buf.Reset()
				s.buf.WriteString("0.")
				s.buf.WriteRune(next)
				return s.scanNumberRest(true)
			}
			if err == nil {
				s.unread()
			}
			return token.Token{}, expr.Errorf(expr.UnknownToken, "unexpected '.' at position %d", s.pos)

		case unicode.IsLetter(r):
			return s.scanIdent(r)

		case r == '-':
			if s.unaryContext() {
				return token.Operator(token.NEG), nil
			}
			return token.Operator(token.SUB), nil

		case token.IsOperatorRune(r):
			return token.Operator(token.OpFromRune(r)), nil

		case r == '(':
			return token.LeftParen, nil
		case r == ')':
			return token.RightParen, nil
		case r == ',':
			return token.Comma, nil
		}

		return token.Token{}, expr.Errorf(expr.UnknownToken, "unknown character %q at position %d", r, s.pos)
	}
}

// unaryContext reports whether a '-' read now is a negation: it is the first
// token, or it follows an operator, a left parenthesis or a comma.
func (s *Scanner) unaryContext() bool {
	if !s.seen {
		return true
	}
	switch s.prev {
	case token.OPERATOR, token.LPAREN, token.COMMA:
		return true
	}
	return false
}

func (s *Scanner) scanNumber(first rune) (token.Token, error) {
	s.buf.Reset()
	s.buf.WriteRune(first)
	return s.scanNumberRest(false)
}

// scanNumberRest consumes the remaining digits and at most one '.' of a
// numeric literal whose prefix is already in buf.
func (s *Scanner) scanNumberRest(hasDecimal bool) (token.Token, error) {
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token.Token{}, err
		}
		if isDigit(r) {
			s.buf.WriteRune(r)
			continue
		}
		if r == '.' {
			if hasDecimal {
				return token.Token{}, expr.Errorf(expr.UnknownToken, "malformed number %q at position %d", literal(s.buf.String()+"."), s.pos)
			}
			hasDecimal = true
			s.buf.WriteRune(r)
			continue
		}
		s.unread()
		break
	}

	v, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return token.Token{}, expr.Errorf(expr.UnknownToken, "malformed number %q", literal(s.buf.String()))
	}
	// out of range literals become ±Inf and fail the evaluator's finite check
	return token.Number(v), nil
}

func (s *Scanner) scanIdent(first rune) (token.Token, error) {
	s.buf.Reset()
	s.buf.WriteRune(first)
	for {
		r, err := s.read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return token.Token{}, err
		}
		if !unicode.IsLetter(r) {
			s.unread()
			break
		}
		s.buf.WriteRune(r)
	}

	name := s.buf.String()
	switch {
	case token.IsFunction(name):
		return token.Function(name), nil
	case token.IsConstant(name):
		return token.Constant(name), nil
	}
	return token.Token{}, expr.Errorf(expr.UnknownToken, "unknown identifier %q", name)
}

func (s *Scanner) read() (rune, error) {
	r, _, err := s.reader.ReadRune()
	if err == nil {
		s.pos++
	}
	return r, err
}

func (s *Scanner) unread() {
	if s.reader.UnreadRune() == nil {
		s.pos--
	}
}

// literal shortens long number text for error messages.
func literal(text string) string {
	const maxLen = 24
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
