package formula

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// The evaluator parses a substituted expression into a small AST restricted
// to numeric literals, the four binary operators, unary minus and the eight
// approved spreadsheet functions. There is no name lookup of any kind, so
// the worst a hostile formula can do is fail to parse.

type funcSpec struct {
	arity int
}

var approvedFunctions = map[string]funcSpec{
	"ROUNDUP":   {arity: 2},
	"ROUNDDOWN": {arity: 2},
	"ROUND":     {arity: 2},
	"CEILING":   {arity: 1},
	"FLOOR":     {arity: 1},
	"ABS":       {arity: 1},
	"MAX":       {arity: 2},
	"MIN":       {arity: 2},
}

type tokenKind int

const (
	tokenNumber tokenKind = iota
	tokenIdent
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenLParen
	tokenRParen
	tokenComma
	tokenEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			for i < len(input) && (input[i] >= '0' && input[i] <= '9' || input[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: input[start:i], pos: start})
		case ch >= 'A' && ch <= 'Z' || ch >= 'a' && ch <= 'z' || ch == '_':
			start := i
			for i < len(input) && (input[i] >= 'A' && input[i] <= 'Z' || input[i] >= 'a' && input[i] <= 'z' || input[i] >= '0' && input[i] <= '9' || input[i] == '_') {
				i++
			}
			tokens = append(tokens, token{kind: tokenIdent, text: input[start:i], pos: start})
		case ch == '+':
			tokens = append(tokens, token{kind: tokenPlus, text: "+", pos: i})
			i++
		case ch == '-':
			tokens = append(tokens, token{kind: tokenMinus, text: "-", pos: i})
			i++
		case ch == '*':
			tokens = append(tokens, token{kind: tokenStar, text: "*", pos: i})
			i++
		case ch == '/':
			tokens = append(tokens, token{kind: tokenSlash, text: "/", pos: i})
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case ch == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		default:
			return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("unexpected character %q at position %d", string(ch), i)}
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(input)})
	return tokens, nil
}

type node interface {
	eval() (decimal.Decimal, error)
}

type numberNode struct {
	value decimal.Decimal
}

type unaryNode struct {
	operand node
}

type binaryNode struct {
	op    tokenKind
	left  node
	right node
}

type callNode struct {
	name string
	args []node
}

type parser struct {
	tokens []token
	pos    int
}

func parse(input string) (node, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current().kind != tokenEOF {
		return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("unexpected token %q at position %d", p.current().text, p.current().pos)}
	}
	return root, nil
}

func (p *parser) current() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.current().kind != kind {
		if p.current().kind == tokenEOF {
			return ErrUnbalancedParens
		}
		return &UnsafeExpressionError{Detail: fmt.Sprintf("expected %s at position %d, found %q", what, p.current().pos, p.current().text)}
	}
	p.advance()
	return nil
}

func (p *parser) parseExpression() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokenPlus || p.current().kind == tokenMinus {
		op := p.advance().kind
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().kind == tokenStar || p.current().kind == tokenSlash {
		op := p.advance().kind
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.current().kind == tokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operand: operand}, nil
	}
	if p.current().kind == tokenPlus {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.current()
	switch tok.kind {
	case tokenNumber:
		p.advance()
		value, err := decimal.NewFromString(tok.text)
		if err != nil {
			return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("malformed number %q at position %d", tok.text, tok.pos)}
		}
		return &numberNode{value: value}, nil
	case tokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen, `")"`); err != nil {
			return nil, err
		}
		return inner, nil
	case tokenIdent:
		return p.parseCall()
	case tokenEOF:
		return nil, &UnsafeExpressionError{Detail: "unexpected end of expression"}
	default:
		return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("unexpected token %q at position %d", tok.text, tok.pos)}
	}
}

func (p *parser) parseCall() (node, error) {
	nameTok := p.advance()
	name := nameTok.text
	spec, approved := approvedFunctions[name]
	if !approved {
		// Uppercase identifiers read like function names; report them as
		// unknown functions so the formula author gets a usable message.
		// Anything else is outside the grammar entirely.
		if name == strings.ToUpper(name) {
			return nil, &UnknownFunctionError{Name: name}
		}
		return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("bare identifier %q at position %d", name, nameTok.pos)}
	}
	if err := p.expect(tokenLParen, `"("`); err != nil {
		return nil, err
	}
	var args []node
	if p.current().kind != tokenRParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current().kind != tokenComma {
				break
			}
			p.advance()
		}
	}
	if err := p.expect(tokenRParen, `")"`); err != nil {
		return nil, err
	}
	if len(args) != spec.arity {
		return nil, &UnsafeExpressionError{Detail: fmt.Sprintf("%s expects %d argument(s), got %d", name, spec.arity, len(args))}
	}
	return &callNode{name: name, args: args}, nil
}
