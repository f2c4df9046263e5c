// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package state

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"nickandperla.net/calc/internal/expr"
)

// EvaluateFunc computes an expression. The reducer receives it per call and
// never reaches for an engine itself.
type EvaluateFunc func(text string) expr.Result

// Reducer folds intents into states. Now and NewID supply the timestamp and
// identity of new history entries; nil fields fall back to the wall clock
// and random UUIDs.
type Reducer struct {
	Now   func() time.Time
	NewID func() string
}

// NewReducer returns a Reducer using the wall clock and random UUIDs.
func NewReducer() Reducer {
	return Reducer{Now: time.Now, NewID: uuid.NewString}
}

// Reduce applies in to s with a default Reducer.
func Reduce(s State, in Intent, evaluate EvaluateFunc) State {
	return NewReducer().Reduce(s, in, evaluate)
}

// Reduce returns the state that results from applying in to s. It never
// fails: unknown or inapplicable intents return s unchanged. s itself is
// not modified.
func (r Reducer) Reduce(s State, in Intent, evaluate EvaluateFunc) State {
	switch in := in.(type) {
	case Append:
		return appendText(s, in.Text)
	case Delete:
		return deleteLast(s)
	case Clear:
		s.CurrentExpression = ""
		s.ErrorMessage = ""
		return s
	case Evaluate:
		return r.evaluate(s, evaluate)
	case ClearHistory:
		s.History = nil
		return s
	case SwitchDestination:
		if d, ok := ParseDestination(in.Name); ok {
			s.Destination = d
		}
		return s
	case UseHistoryEntry:
		return useEntry(s, in.ID)
	}
	return s
}

func appendText(s State, text string) State {
	if text == "" {
		return s
	}

	buf := s.CurrentExpression
	if s.ResultOnDisplay() && !isOperator(text) {
		// start fresh after a result; operators continue from it
		buf = ""
	}

	if text == "." && strings.Contains(lastSegment(buf), ".") {
		return s
	}

	if buf == "0" && text != "." {
		buf = ""
	}

	if text == "(" {
		if last := lastChar(buf); isDigit(last) || last == ')' {
			text = "*("
		}
	}

	s.CurrentExpression = buf + text
	s.ErrorMessage = ""
	return s
}

func deleteLast(s State) State {
	if s.CurrentExpression == "" {
		return s
	}
	runes := []rune(s.CurrentExpression)
	s.CurrentExpression = string(runes[:len(runes)-1])
	s.ErrorMessage = ""
	return s
}

func (r Reducer) evaluate(s State, evaluate EvaluateFunc) State {
	expression := strings.TrimSpace(s.CurrentExpression)
	if expression == "" || evaluate == nil {
		return s
	}

	res := evaluate(expression)
	if res == nil {
		res = expr.NewFailure(expr.InvalidSyntax, "no result")
	}

	entry := HistoryEntry{
		ID:          r.newID(),
		TimestampMs: r.timestamp(s.History),
		Expression:  expression,
		Result:      res,
	}
	history := make([]HistoryEntry, 0, len(s.History)+1)
	history = append(history, entry)
	s.History = append(history, s.History...)

	switch res := res.(type) {
	case expr.Success:
		s.CurrentExpression = res.Formatted
		s.LastResult = resultPrefix + res.Formatted
		s.ErrorMessage = ""
	case expr.Failure:
		// the buffer stays so the user can fix it
		s.ErrorMessage = res.Message
	}
	return s
}

func useEntry(s State, id string) State {
	entry, ok := s.FindEntry(id)
	if !ok {
		return s
	}
	s.CurrentExpression = entry.Expression
	s.Destination = Calculator
	s.ErrorMessage = ""
	if formatted, ok := expr.Formatted(entry.Result); ok {
		s.LastResult = resultPrefix + formatted
	} else {
		s.LastResult = ""
	}
	return s
}

func (r Reducer) newID() string {
	if r.NewID != nil {
		return r.NewID()
	}
	return uuid.NewString()
}

// timestamp returns the current epoch milliseconds, never earlier than the
// newest existing entry.
func (r Reducer) timestamp(history []HistoryEntry) int64 {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	ts := now().UnixMilli()
	if len(history) > 0 && history[0].TimestampMs > ts {
		ts = history[0].TimestampMs
	}
	return ts
}

func isOperator(text string) bool {
	return strings.Contains("+-*/%", text)
}

// lastSegment returns the text after the last operator, parenthesis or comma.
func lastSegment(buf string) string {
	return buf[strings.LastIndexAny(buf, "+-*/%(),")+1:]
}

func lastChar(buf string) byte {
	buf = strings.TrimSpace(buf)
	if buf == "" {
		return 0
	}
	return buf[len(buf)-1]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
