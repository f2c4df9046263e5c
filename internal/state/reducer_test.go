// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/calc/internal/engine"
	"nickandperla.net/calc/internal/expr"
)

// testReducer returns a Reducer with a fixed clock and sequential ids.
func testReducer() Reducer {
	n := 0
	return Reducer{
		Now: func() time.Time { return time.UnixMilli(1_700_000_000_000) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

// run applies intents in order using the real engine.
func run(r Reducer, s State, intents ...Intent) State {
	for _, in := range intents {
		s = r.Reduce(s, in, engine.Evaluate)
	}
	return s
}

// typed appends each rune of text as its own intent.
func typed(text string) []Intent {
	var out []Intent
	for _, c := range text {
		out = append(out, Append{Text: string(c)})
	}
	return out
}

func TestAppend(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), typed("12+3")...)
	assert.Equal(t, "12+3", s.CurrentExpression)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	s := State{CurrentExpression: "1", ErrorMessage: "bad"}
	assert.Equal(t, s, testReducer().Reduce(s, Append{}, engine.Evaluate))
}

func TestAppendRejectsSecondDecimal(t *testing.T) {
	r := testReducer()

	s := run(r, Initial(), typed("1.2.")...)
	assert.Equal(t, "1.2", s.CurrentExpression)

	s = run(r, s, typed("+3.4")...)
	assert.Equal(t, "1.2+3.4", s.CurrentExpression)

	s = run(r, Initial(), typed("pow(1.5,2.5")...)
	assert.Equal(t, "pow(1.5,2.5", s.CurrentExpression)
}

func TestAppendReplacesLeadingZero(t *testing.T) {
	r := testReducer()

	s := run(r, Initial(), typed("05")...)
	assert.Equal(t, "5", s.CurrentExpression)

	s = run(r, Initial(), typed("0.5")...)
	assert.Equal(t, "0.5", s.CurrentExpression)
}

func TestAppendImplicitMultiplication(t *testing.T) {
	r := testReducer()

	s := run(r, Initial(), typed("2(")...)
	assert.Equal(t, "2*(", s.CurrentExpression)

	s = run(r, Initial(), typed("(1)(")...)
	assert.Equal(t, "(1)*(", s.CurrentExpression)

	s = run(r, Initial(), typed("2+(")...)
	assert.Equal(t, "2+(", s.CurrentExpression)

	s = run(r, s, typed("3)")...)
	s = run(r, s, Evaluate{})
	assert.Equal(t, "5", s.CurrentExpression)
}

func TestAppendAfterResult(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("2+3"), Evaluate{})...)
	require.Equal(t, "5", s.CurrentExpression)
	require.True(t, s.ResultOnDisplay())

	// a digit starts a new expression
	fresh := run(r, s, Append{Text: "7"})
	assert.Equal(t, "7", fresh.CurrentExpression)
	assert.Equal(t, "= 5", fresh.LastResult)

	// an operator continues from the result
	chained := run(r, s, typed("*2")...)
	assert.Equal(t, "5*2", chained.CurrentExpression)
	chained = run(r, chained, Evaluate{})
	assert.Equal(t, "10", chained.CurrentExpression)
	assert.Equal(t, "= 10", chained.LastResult)
}

func TestAppendClearsError(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("1/0"), Evaluate{})...)
	require.True(t, s.HasError())

	s = run(r, s, Delete{}, Append{Text: "2"})
	assert.False(t, s.HasError())
	assert.Equal(t, "1/2", s.CurrentExpression)
}

func TestDelete(t *testing.T) {
	r := testReducer()

	s := run(r, Initial(), append(typed("12"), Delete{})...)
	assert.Equal(t, "1", s.CurrentExpression)

	empty := Initial()
	assert.Equal(t, empty, r.Reduce(empty, Delete{}, engine.Evaluate))

	s = State{CurrentExpression: "1+", ErrorMessage: "Not enough operands"}
	s = r.Reduce(s, Delete{}, engine.Evaluate)
	assert.Equal(t, "1", s.CurrentExpression)
	assert.Empty(t, s.ErrorMessage)
}

func TestClearKeepsLastResult(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("6*7"), Evaluate{}, Append{Text: "+"})...)

	once := r.Reduce(s, Clear{}, engine.Evaluate)
	assert.Equal(t, "", once.CurrentExpression)
	assert.Equal(t, "= 42", once.LastResult)
	assert.Empty(t, once.ErrorMessage)

	twice := r.Reduce(once, Clear{}, engine.Evaluate)
	assert.Equal(t, once, twice)
}

func TestEvaluateSuccess(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), typed(" 2+2 ")...)
	s = r.Reduce(s, Evaluate{}, engine.Evaluate)

	assert.Equal(t, "4", s.CurrentExpression)
	assert.Equal(t, "= 4", s.LastResult)
	require.Len(t, s.History, 1)
	assert.Equal(t, HistoryEntry{
		ID:          "id-1",
		TimestampMs: 1_700_000_000_000,
		Expression:  "2+2",
		Result:      expr.Success{Value: 4, Formatted: "4"},
	}, s.History[0])
}

func TestEvaluateFailure(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("1+2"), Evaluate{})...)
	s = run(r, s, Clear{})
	s = run(r, s, append(typed("sqrt(-1)"), Evaluate{})...)

	assert.Equal(t, "sqrt(-1)", s.CurrentExpression)
	assert.Equal(t, "= 3", s.LastResult)
	assert.NotEmpty(t, s.ErrorMessage)
	require.Len(t, s.History, 2)
	f, ok := s.History[0].Result.(expr.Failure)
	require.True(t, ok)
	assert.Equal(t, expr.DomainError, f.Kind)
	assert.Equal(t, s.ErrorMessage, f.Message)
}

func TestEvaluateEmptyIsNoop(t *testing.T) {
	r := testReducer()
	calls := 0
	evaluate := func(string) expr.Result {
		calls++
		return expr.Success{}
	}

	s := State{CurrentExpression: "   ", Destination: Calculator}
	assert.Equal(t, s, r.Reduce(s, Evaluate{}, evaluate))
	assert.Zero(t, calls)
}

func TestEvaluateUsesInjectedEvaluator(t *testing.T) {
	r := testReducer()
	var got string
	evaluate := func(text string) expr.Result {
		got = text
		return expr.Success{Value: 99, Formatted: "99"}
	}

	s := r.Reduce(State{CurrentExpression: "anything"}, Evaluate{}, evaluate)
	assert.Equal(t, "anything", got)
	assert.Equal(t, "99", s.CurrentExpression)
}

func TestHistoryOrdering(t *testing.T) {
	r := testReducer()
	s := Initial()
	for i := 1; i <= 3; i++ {
		s = run(r, s, Clear{}, Append{Text: fmt.Sprint(i)}, Evaluate{})
		require.Len(t, s.History, i)
		assert.Equal(t, fmt.Sprint(i), s.History[0].Expression)
	}
	assert.Equal(t, []string{"id-3", "id-2", "id-1"}, []string{s.History[0].ID, s.History[1].ID, s.History[2].ID})

	cleared := r.Reduce(s, ClearHistory{}, engine.Evaluate)
	assert.Empty(t, cleared.History)
	assert.Equal(t, s.CurrentExpression, cleared.CurrentExpression)
	assert.Equal(t, s.LastResult, cleared.LastResult)
	assert.Len(t, s.History, 3, "input state must not change")
}

func TestTimestampsNeverGoBackwards(t *testing.T) {
	ts := []int64{2000, 1000}
	i := 0
	r := Reducer{
		Now: func() time.Time {
			v := ts[i]
			i++
			return time.UnixMilli(v)
		},
		NewID: testReducer().NewID,
	}

	s := run(r, Initial(), Append{Text: "1"}, Evaluate{}, Clear{}, Append{Text: "2"}, Evaluate{})
	require.Len(t, s.History, 2)
	assert.Equal(t, int64(2000), s.History[0].TimestampMs)
}

func TestEvaluateDoesNotShareHistory(t *testing.T) {
	r := testReducer()
	base := run(r, Initial(), Append{Text: "1"}, Evaluate{})

	a := run(r, base, Append{Text: "+"}, Append{Text: "1"}, Evaluate{})
	b := run(r, base, Append{Text: "*"}, Append{Text: "5"}, Evaluate{})

	assert.Equal(t, "1+1", a.History[0].Expression)
	assert.Equal(t, "1*5", b.History[0].Expression)
	assert.Len(t, base.History, 1)
}

func TestSwitchDestination(t *testing.T) {
	r := testReducer()

	s := r.Reduce(Initial(), SwitchDestination{Name: "history"}, engine.Evaluate)
	assert.Equal(t, History, s.Destination)

	s = r.Reduce(s, SwitchDestination{Name: "calculator"}, engine.Evaluate)
	assert.Equal(t, Calculator, s.Destination)

	for _, name := range []string{"", "settings", "History"} {
		assert.Equal(t, s, r.Reduce(s, SwitchDestination{Name: name}, engine.Evaluate))
	}
}

func TestUseHistoryEntry(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("2*3"), Evaluate{})...)
	s = run(r, s, append(typed("/0"), Evaluate{})...)
	require.Len(t, s.History, 2)
	failedID, okID := s.History[0].ID, s.History[1].ID

	s = r.Reduce(s, SwitchDestination{Name: "history"}, engine.Evaluate)
	s = r.Reduce(s, UseHistoryEntry{ID: okID}, engine.Evaluate)
	assert.Equal(t, "2*3", s.CurrentExpression)
	assert.Equal(t, Calculator, s.Destination)
	assert.Equal(t, "= 6", s.LastResult)
	assert.Empty(t, s.ErrorMessage)

	s = r.Reduce(s, UseHistoryEntry{ID: failedID}, engine.Evaluate)
	assert.Equal(t, "6/0", s.CurrentExpression)
	assert.Empty(t, s.LastResult)
}

func TestUseHistoryEntryUnknownIsNoop(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("1+1"), Evaluate{})...)
	s = r.Reduce(s, SwitchDestination{Name: "history"}, engine.Evaluate)

	assert.Equal(t, s, r.Reduce(s, UseHistoryEntry{ID: "missing"}, engine.Evaluate))
}

func TestUnknownIntentIsNoop(t *testing.T) {
	s := State{CurrentExpression: "1"}
	assert.Equal(t, s, Reduce(s, nil, engine.Evaluate))
}

func TestDefaultReducerGeneratesIDs(t *testing.T) {
	s := Reduce(State{CurrentExpression: "1"}, Evaluate{}, engine.Evaluate)
	s = Reduce(s, Evaluate{}, engine.Evaluate)
	require.Len(t, s.History, 2)
	assert.NotEmpty(t, s.History[0].ID)
	assert.NotEqual(t, s.History[0].ID, s.History[1].ID)
	assert.Positive(t, s.History[0].TimestampMs)
}

func TestAppendAfterErrorKeepsBuffer(t *testing.T) {
	r := testReducer()
	s := run(r, Initial(), append(typed("(1+2"), Evaluate{})...)
	require.True(t, s.HasError())

	s = run(r, s, Append{Text: ")"})
	assert.Equal(t, "(1+2)", s.CurrentExpression)
	assert.False(t, s.HasError())
}

func TestDeleteEmptyKeepsError(t *testing.T) {
	s := State{ErrorMessage: "Mismatched parentheses", Destination: Calculator}
	assert.Equal(t, s, testReducer().Reduce(s, Delete{}, nil))
}
