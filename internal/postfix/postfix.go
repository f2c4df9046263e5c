// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package postfix converts infix token streams to postfix order using the
// shunting-yard algorithm.
package postfix

import (
	"nickandperla.net/calc/internal/expr"
	"nickandperla.net/calc/internal/token"
)

// Convert reorders infix tokens into postfix order. It fails with
// MismatchedParentheses on unbalanced parentheses and with InvalidSyntax on
// a comma outside any parenthesized argument list. Function arity is not
// checked here.
func Convert(tokens []token.Token) ([]token.Token, error) {
	out := make([]token.Token, 0, len(tokens))
	var stack []token.Token

	for _, tok := range tokens {
		switch tok.Kind {
		case token.NUMBER, token.CONSTANT:
			out = append(out, tok)

		case token.FUNCTION, token.LPAREN:
			stack = append(stack, tok)

		case token.COMMA:
			for len(stack) > 0 && top(stack).Kind != token.LPAREN {
				out = append(out, top(stack))
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, expr.Errorf(expr.InvalidSyntax, "misplaced comma")
			}

		case token.OPERATOR:
			for len(stack) > 0 && top(stack).Kind == token.OPERATOR && yields(top(stack).Op, tok.Op) {
				out = append(out, top(stack))
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)

		case token.RPAREN:
			for len(stack) > 0 && top(stack).Kind != token.LPAREN {
				out = append(out, top(stack))
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, expr.Errorf(expr.MismatchedParentheses, "mismatched parentheses: missing '('")
			}
			stack = stack[:len(stack)-1]

			// A function below the group owns it as its argument list
			if len(stack) > 0 && top(stack).Kind == token.FUNCTION {
				out = append(out, top(stack))
				stack = stack[:len(stack)-1]
			}

		default:
			return nil, expr.Errorf(expr.InvalidSyntax, "unexpected token %s", tok)
		}
	}

	for len(stack) > 0 {
		tok := top(stack)
		stack = stack[:len(stack)-1]
		if tok.Kind == token.LPAREN {
			return nil, expr.Errorf(expr.MismatchedParentheses, "mismatched parentheses: missing ')'")
		}
		out = append(out, tok)
	}

	return out, nil
}

// yields reports whether the stacked operator must be emitted before the
// incoming one is pushed.
func yields(stacked, incoming token.Op) bool {
	p1, p2 := stacked.Precedence(), incoming.Precedence()
	return p1 > p2 || (p1 == p2 && incoming.LeftAssoc())
}

func top(stack []token.Token) token.Token {
	return stack[len(stack)-1]
}
