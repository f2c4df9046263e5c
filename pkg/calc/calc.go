// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package calc

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"nickandperla.net/calc/internal/engine"
	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/state"
	"nickandperla.net/calc/internal/store"
	"nickandperla.net/calc/internal/token"
)

// Runtime holds the current calculator state and applies intents to it one
// at a time. It is safe for concurrent use.
type Runtime struct {
	mu       sync.Mutex
	state    state.State
	reducer  state.Reducer
	engine   *engine.Engine
	evaluate state.EvaluateFunc
	store    store.Store
	storeErr error
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

// New creates a new calculator runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		state: state.Initial(),
		log:   slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.engine = engine.New(engine.WithLogger(r.log))
	if r.evaluate == nil {
		r.evaluate = r.engine.Evaluate
	}

	r.reducer = state.NewReducer()
	if r.now != nil {
		r.reducer.Now = r.now
	}
	if r.newID != nil {
		r.reducer.NewID = r.newID
	}

	if r.storeErr != nil {
		r.log.Warn("store unavailable, using memory", "err", r.storeErr)
		r.store = store.NewMemory()
	}

	return r
}

// Dispatch applies an intent to the current state and returns the new state.
func (r *Runtime) Dispatch(in Intent) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(in)
}

// apply runs one intent through the reducer (caller must hold lock).
func (r *Runtime) apply(in Intent) State {
	prev := r.state
	next := r.reducer.Reduce(prev, in, r.evaluate)
	r.state = next
	r.log.Debug("dispatch", "intent", fmt.Sprintf("%T", in), "expr", next.CurrentExpression)

	if r.store == nil {
		return next
	}
	switch in.(type) {
	case Evaluate:
		if len(next.History) > len(prev.History) {
			if err := r.store.Append(toRecord(next.History[0])); err != nil {
				r.log.Warn("failed to log evaluation", "err", err)
			}
		}
	case ClearHistory:
		if err := r.store.Clear(); err != nil {
			r.log.Warn("failed to clear log", "err", err)
		}
	}
	return next
}

// State returns the current state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Evaluate computes text without touching the state or history.
func (r *Runtime) Evaluate(text string) Result {
	return r.evaluate(text)
}

// Trace evaluates text like Evaluate, calling fn with each postfix step and
// the operand stack after it.
func (r *Runtime) Trace(text string, fn func(step string, stack []float64)) Result {
	return r.engine.Trace(text, func(tok token.Token, stack []float64) {
		fn(tok.String(), stack)
	})
}

// Compile returns the postfix form of text, space separated.
func (r *Runtime) Compile(text string) (string, error) {
	rpn, err := r.engine.Compile(text)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(rpn))
	for i, tok := range rpn {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " "), nil
}

// Submit replaces the buffer with text and evaluates it, recording a
// history entry. Blank text records nothing.
func (r *Runtime) Submit(text string) Result {
	if strings.TrimSpace(text) == "" {
		return expr.NewFailure(expr.InvalidSyntax, "expression is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.apply(Clear{})
	r.apply(Append{Text: text})
	next := r.apply(Evaluate{})
	return next.History[0].Result
}

// EvalReader submits each non-blank line of reader and returns the results
// in order.
func (r *Runtime) EvalReader(reader io.Reader) ([]Result, error) {
	var results []Result
	sc := bufio.NewScanner(reader)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		results = append(results, r.Submit(line))
	}
	return results, sc.Err()
}

// EvalFile submits each non-blank line of a file.
func (r *Runtime) EvalFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.EvalReader(f)
}

// Recent returns logged evaluations, newest first. A limit of 0 returns all.
func (r *Runtime) Recent(limit int) ([]Record, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.List(limit)
}

// Lookup returns the logged evaluation with the given id, or nil if there
// is none.
func (r *Runtime) Lookup(id string) (*Record, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.Get(id)
}

// Search returns logged evaluations whose expression contains substr.
func (r *Runtime) Search(substr string, limit int) ([]Record, error) {
	if r.store == nil {
		return nil, nil
	}
	return r.store.Search(substr, limit)
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

func toRecord(e state.HistoryEntry) store.Record {
	rec := store.Record{
		ID:          e.ID,
		TimestampMs: e.TimestampMs,
		Expression:  e.Expression,
	}
	switch res := e.Result.(type) {
	case expr.Success:
		rec.OK = true
		rec.Value = res.Value
		rec.Formatted = res.Formatted
	case expr.Failure:
		rec.Kind = res.Kind.String()
		rec.Message = res.Message
	}
	return rec
}
