package expr

import (
	"fmt"
	"strings"
)

// Parser consumes tokens produced by the lexer and builds a formula.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a new Parser instance.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes and parses text into a formula.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SyntaxError{Pos: 0, Msg: "empty formula"}
	}
	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and static tables.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// Parse processes all tokens and returns the formula they spell.
func (p *Parser) Parse() (Expr, error) {
	e, err := p.parseIff()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.unexpected(tok, "end of input")
	}
	return e, nil
}

// parseIff parses the loosest level. A chain a ↔ b ↔ c groups to the left.
func (p *Parser) parseIff() (Expr, error) {
	left, err := p.parseImplies()
	if err != nil {
		return nil, err
	}
	for p.match(TokenIff) {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		left = Iff(left, right)
	}
	return left, nil
}

// parseImplies groups to the right: a → b → c is a → (b → c).
func (p *Parser) parseImplies() (Expr, error) {
	left, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.match(TokenImplies) {
		right, err := p.parseImplies()
		if err != nil {
			return nil, err
		}
		return Implies(left, right), nil
	}
	return left, nil
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenNot:
		p.current++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg(x), nil

	case TokenForall, TokenExists:
		p.current++
		v := p.peek()
		if v.Type != TokenIdent {
			return nil, p.unexpected(v, "bound variable")
		}
		p.current++
		body, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		kind := Forall
		if tok.Type == TokenExists {
			kind = Exists
		}
		return Quant{Kind: kind, Var: v.Value, Body: body}, nil

	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case TokenBottom:
		p.current++
		return Bottom{}, nil

	case TokenTop:
		p.current++
		return Top{}, nil

	case TokenLParen:
		p.current++
		e, err := p.parseIff()
		if err != nil {
			return nil, err
		}
		if !p.match(TokenRParen) {
			return nil, p.unexpected(p.peek(), "')'")
		}
		return e, nil

	case TokenIdent:
		p.current++
		pred := Pred{Name: tok.Value}
		if p.match(TokenLParen) {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			pred.Args = args
		}
		return pred, nil

	default:
		return nil, p.unexpected(tok, "formula")
	}
}

// parseArgs parses the term list after an opening parenthesis, consuming
// the closing one.
func (p *Parser) parseArgs() ([]string, error) {
	var args []string
	for {
		tok := p.peek()
		if tok.Type != TokenIdent {
			return nil, p.unexpected(tok, "term")
		}
		p.current++
		args = append(args, tok.Value)

		if p.match(TokenRParen) {
			return args, nil
		}
		if !p.match(TokenComma) {
			return nil, p.unexpected(p.peek(), "',' or ')'")
		}
	}
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		return Token{Type: TokenEOF, Position: -1}
	}
	return p.tokens[p.current]
}

func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type != tt {
		return false
	}
	p.current++
	return true
}

func (p *Parser) unexpected(tok Token, want string) error {
	got := tok.Type.String()
	if tok.Type == TokenIdent {
		got = fmt.Sprintf("%q", tok.Value)
	}
	return &SyntaxError{Pos: tok.Position, Msg: fmt.Sprintf("expected %s, found %s", want, got)}
}
