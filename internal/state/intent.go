// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package state

// Intent is a user action. The set of intents is closed.
type Intent interface {
	intent()
}

// Append adds text (a digit, operator, parenthesis or function name) to the buffer.
type Append struct{ Text string }

// Delete removes the last character of the buffer.
type Delete struct{}

// Clear empties the buffer. The last result stays visible.
type Clear struct{}

// Evaluate computes the buffer and records a history entry.
type Evaluate struct{}

// ClearHistory drops all history entries.
type ClearHistory struct{}

// SwitchDestination changes the screen. Unknown names are ignored.
type SwitchDestination struct{ Name string }

// UseHistoryEntry loads a history entry's expression into the buffer.
type UseHistoryEntry struct{ ID string }

func (Append) intent()            {}
func (Delete) intent()            {}
func (Clear) intent()             {}
func (Evaluate) intent()          {}
func (ClearHistory) intent()      {}
func (SwitchDestination) intent() {}
func (UseHistoryEntry) intent()   {}
