// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"golang.org/x/term"

	"nickandperla.net/calc/pkg/calc"
)

const helpText = `Type an expression and press Enter to evaluate it.
A line starting with an operator continues from the last result.

  :history          list evaluations, newest first
  :find <text>      search the evaluation log
  :use <id>         load a history entry by id prefix
  :show <id>        show a logged evaluation by id prefix
  :del              delete the last character
  :clear            clear the expression
  :clearhistory     forget all history
  :screen <name>    switch to calculator or history
  :rpn <expr>       show the postfix form of expr
  :trace <expr>     evaluate expr showing the stack after each step
  :state            show the current state
  :quit             exit`

// session drives a Runtime from lines of keypad input. nl is the line
// ending to write; raw terminals need "\r\n".
type session struct {
	rt  *calc.Runtime
	out io.Writer
	nl  string
}

func newSession(rt *calc.Runtime, out io.Writer) *session {
	return &session{rt: rt, out: out, nl: "\n"}
}

func (s *session) println(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	text = strings.ReplaceAll(text, "\n", s.nl)
	io.WriteString(s.out, text+s.nl)
}

// handle processes one input line. It returns false when the session should
// end.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		s.rt.Dispatch(calc.Append{Text: string(r)})
	}
	st := s.rt.Dispatch(calc.Evaluate{})
	s.showResult(st)
	return true
}

func (s *session) showResult(st calc.State) {
	if st.HasError() {
		s.println("error: %s", st.ErrorMessage)
		return
	}
	if st.LastResult != "" {
		s.println("%s", st.LastResult)
	}
}

func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q", ":exit":
		return false

	case ":help", ":h":
		s.println("%s", helpText)

	case ":history":
		history := s.rt.State().History
		if len(history) == 0 {
			s.println("(no history)")
		}
		for _, e := range history {
			s.println("%s  %s  %s", shortID(e.ID), e.Expression, describe(e.Result))
		}

	case ":find":
		if arg == "" {
			s.println("usage: :find <text>")
			break
		}
		recs, err := s.rt.Search(arg, 20)
		if err != nil {
			s.println("Error: %v", err)
			break
		}
		if len(recs) == 0 {
			s.println("(no matches)")
		}
		for _, rec := range recs {
			s.println("%s  %s  %s", shortID(rec.ID), rec.Expression, describe(rec.Result()))
		}

	case ":use":
		id, err := s.resolveID(arg)
		if err != nil {
			s.println("%v", err)
			break
		}
		s.showBuffer(s.rt.Dispatch(calc.UseHistoryEntry{ID: id}))

	case ":show":
		id, err := s.resolveID(arg)
		if err != nil {
			s.println("%v", err)
			break
		}
		rec, err := s.rt.Lookup(id)
		if err != nil {
			s.println("Error: %v", err)
			break
		}
		if rec == nil {
			s.println("%s is not in the evaluation log", shortID(id))
			break
		}
		s.println("id: %s", rec.ID)
		s.println("time: %s", time.UnixMilli(rec.TimestampMs).UTC().Format(time.RFC3339))
		s.println("expression: %s", rec.Expression)
		s.println("%s", describe(rec.Result()))

	case ":del":
		s.showBuffer(s.rt.Dispatch(calc.Delete{}))

	case ":clear", ":c":
		s.showBuffer(s.rt.Dispatch(calc.Clear{}))

	case ":clearhistory":
		s.rt.Dispatch(calc.ClearHistory{})
		s.println("history cleared")

	case ":screen":
		st := s.rt.Dispatch(calc.SwitchDestination{Name: arg})
		s.println("screen: %s", st.Destination)

	case ":rpn":
		rpn, err := s.rt.Compile(arg)
		if err != nil {
			s.println("error: %v", err)
			break
		}
		s.println("%s", rpn)

	case ":trace":
		res := s.rt.Trace(arg, func(step string, stack []float64) {
			s.println("  %-6s %v", step, stack)
		})
		s.println("%s", describe(res))

	case ":state":
		st := s.rt.State()
		s.println("screen: %s", st.Destination)
		s.println("expression: %q", st.CurrentExpression)
		if st.LastResult != "" {
			s.println("last result: %s", st.LastResult)
		}
		if st.HasError() {
			s.println("error: %s", st.ErrorMessage)
		}
		s.println("history: %d entries", len(st.History))

	default:
		s.println("unknown command %s (try :help)", name)
	}
	return true
}

func (s *session) showBuffer(st calc.State) {
	s.println("[%s]", st.CurrentExpression)
}

// resolveID finds the unique history entry whose id starts with prefix.
func (s *session) resolveID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("usage: :use <id>")
	}
	var match string
	for _, e := range s.rt.State().History {
		if !strings.HasPrefix(e.ID, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous id %s", prefix)
		}
		match = e.ID
	}
	if match == "" {
		return "", fmt.Errorf("no history entry %s", prefix)
	}
	return match, nil
}

func describe(res calc.Result) string {
	if res.OK() {
		return "= " + res.String()
	}
	return "error: " + res.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printBanner(out io.Writer, nl string) {
	fmt.Fprintf(out, "calc REPL (Ctrl+D to exit, :help for commands)%s%s", nl, nl)
}

func runREPL(runtime *calc.Runtime, in *os.File, out io.Writer, banner bool) {
	fd := int(in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		if banner {
			printBanner(out, "\n")
		}
		runBasicREPL(newSession(runtime, out), in)
		return
	}
	defer term.Restore(fd, oldState)

	if banner {
		printBanner(out, "\r\n")
	}
	s := newSession(runtime, out)
	s.nl = "\r\n"
	runRawREPL(s, in)
}

// runBasicREPL reads whole lines when the terminal cannot be put in raw mode.
func runBasicREPL(s *session, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(s.out, ">>> ")
		line, err := reader.ReadString('\n')
		if line != "" && !s.handle(line) {
			return
		}
		if err != nil {
			fmt.Fprintln(s.out)
			return
		}
	}
}

func runRawREPL(s *session, in io.Reader) {
	ed := &lineEditor{in: in, out: s.out}
	for {
		fmt.Fprint(s.out, ">>> ")
		ed.recall = expressions(s.rt.State().History)
		line, eof := ed.readLine()
		if eof {
			fmt.Fprint(s.out, "\r\n")
			return
		}
		if !s.handle(line) {
			return
		}
	}
}

func expressions(history []calc.HistoryEntry) []string {
	out := make([]string, len(history))
	for i, e := range history {
		out[i] = e.Expression
	}
	return out
}
