// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"fmt"
	"testing"

	"nickandperla.net/calc/internal/expr"
)

// stores returns a fresh instance of every implementation.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLite()
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func record(i int, expression string) Record {
	return Record{
		ID:          fmt.Sprintf("id-%d", i),
		TimestampMs: int64(1000 + i),
		Expression:  expression,
		OK:          true,
		Value:       float64(i),
		Formatted:   fmt.Sprint(i),
	}
}

func TestAppendGet(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			want := Record{
				ID:          "a",
				TimestampMs: 42,
				Expression:  "1 / 0",
				Kind:        "DivideByZero",
				Message:     "Cannot divide by zero",
			}
			if err := s.Append(want); err != nil {
				t.Fatalf("Append failed: %v", err)
			}

			got, err := s.Get("a")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got == nil || *got != want {
				t.Errorf("expected %+v, got %+v", want, got)
			}

			got, err = s.Get("missing")
			if err != nil {
				t.Fatalf("Get missing failed: %v", err)
			}
			if got != nil {
				t.Errorf("expected nil for missing id, got %+v", got)
			}
		})
	}
}

func TestListNewestFirst(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			for i := 1; i <= 3; i++ {
				if err := s.Append(record(i, fmt.Sprintf("%d+0", i))); err != nil {
					t.Fatalf("Append failed: %v", err)
				}
			}
			// duplicate ids are ignored
			if err := s.Append(record(2, "dup")); err != nil {
				t.Fatalf("Append duplicate failed: %v", err)
			}

			all, err := s.List(0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("expected 3 records, got %d", len(all))
			}
			for i, id := range []string{"id-3", "id-2", "id-1"} {
				if all[i].ID != id {
					t.Errorf("record %d: expected %s, got %s", i, id, all[i].ID)
				}
			}

			limited, err := s.List(2)
			if err != nil {
				t.Fatalf("List with limit failed: %v", err)
			}
			if len(limited) != 2 || limited[0].ID != "id-3" {
				t.Errorf("unexpected limited list: %+v", limited)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			exprs := []string{"200 * 10%", "sqrt(16)", "1 + 5%", "pow(2, 3)"}
			for i, e := range exprs {
				if err := s.Append(record(i, e)); err != nil {
					t.Fatalf("Append failed: %v", err)
				}
			}

			got, err := s.Search("%", 0)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(got) != 2 || got[0].Expression != "1 + 5%" || got[1].Expression != "200 * 10%" {
				t.Errorf("unexpected search result: %+v", got)
			}

			got, err = s.Search("_", 0)
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected no match for '_', got %+v", got)
			}

			got, err = s.Search("(", 1)
			if err != nil {
				t.Fatalf("Search with limit failed: %v", err)
			}
			if len(got) != 1 || got[0].Expression != "pow(2, 3)" {
				t.Errorf("unexpected limited search result: %+v", got)
			}
		})
	}
}

func TestClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			s.Append(record(1, "1"))
			s.Append(record(2, "2"))
			if err := s.Clear(); err != nil {
				t.Fatalf("Clear failed: %v", err)
			}

			all, err := s.List(0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(all) != 0 {
				t.Errorf("expected empty store after Clear, got %d records", len(all))
			}

			// ids are reusable after a clear
			if err := s.Append(record(1, "again")); err != nil {
				t.Fatalf("Append after Clear failed: %v", err)
			}
			got, _ := s.Get("id-1")
			if got == nil || got.Expression != "again" {
				t.Errorf("expected re-appended record, got %+v", got)
			}
		})
	}
}

func TestSQLiteSchemaVersion(t *testing.T) {
	s, err := NewSQLite()
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()

	var v string
	if err := s.db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&v); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("expected schema version %s, got %q", SchemaVersion, v)
	}
}

func TestSQLiteIsPrivate(t *testing.T) {
	a, err := NewSQLite()
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer a.Close()
	b, err := NewSQLite()
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer b.Close()

	a.Append(record(1, "1"))
	all, err := b.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("stores share data: %+v", all)
	}
}

func TestRecordResult(t *testing.T) {
	ok := Record{ID: "a", Expression: "2+2", OK: true, Value: 4, Formatted: "4"}
	if got := ok.Result(); got != (expr.Success{Value: 4, Formatted: "4"}) {
		t.Errorf("success record: got %v", got)
	}

	failed := Record{ID: "b", Expression: "1/0", Kind: "DivideByZero", Message: "Cannot divide by zero"}
	if got := failed.Result(); got != expr.NewFailure(expr.DivideByZero, "Cannot divide by zero") {
		t.Errorf("failure record: got %v", got)
	}

	unknown := Record{ID: "c", Kind: "Bogus", Message: "?"}
	if got := unknown.Result(); got != expr.NewFailure(expr.InvalidSyntax, "?") {
		t.Errorf("unknown kind: got %v", got)
	}
}
