package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType defines different types of tokens that can be produced by the lexer.
type TokenType int

const (
	TokenIdent   TokenType = iota // predicate, term or bound variable name
	TokenLParen                   // '('
	TokenRParen                   // ')'
	TokenComma                    // ','
	TokenNot                      // ¬ ~ !
	TokenAnd                      // ∧ & ^ /\
	TokenOr                       // ∨ | \/
	TokenImplies                  // → ->
	TokenIff                      // ↔ <->
	TokenBottom                   // ⊥ _|_
	TokenTop                      // ⊤
	TokenForall                   // ∀ forall
	TokenExists                   // ∃ exists
	TokenEOF                      // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenNot:
		return "¬"
	case TokenAnd:
		return "∧"
	case TokenOr:
		return "∨"
	case TokenImplies:
		return "→"
	case TokenIff:
		return "↔"
	case TokenBottom:
		return "⊥"
	case TokenTop:
		return "⊤"
	case TokenForall:
		return "∀"
	case TokenExists:
		return "∃"
	case TokenEOF:
		return "end of input"
	default:
		return "?"
	}
}

// Token represents a single lexical token with type, value, and position.
type Token struct {
	Type     TokenType
	Value    string
	Position int // byte offset in the original input
}

// SyntaxError reports malformed formula text.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// symbols maps multi-character and Unicode operator spellings to token types.
// Longer spellings come first so that "<->" wins over "<".
var symbols = []struct {
	text string
	typ  TokenType
}{
	{"<->", TokenIff},
	{"_|_", TokenBottom},
	{"->", TokenImplies},
	{"/\\", TokenAnd},
	{"\\/", TokenOr},
	{"↔", TokenIff},
	{"→", TokenImplies},
	{"∧", TokenAnd},
	{"∨", TokenOr},
	{"¬", TokenNot},
	{"⊥", TokenBottom},
	{"⊤", TokenTop},
	{"∀", TokenForall},
	{"∃", TokenExists},
	{"&", TokenAnd},
	{"^", TokenAnd},
	{"|", TokenOr},
	{"~", TokenNot},
	{"!", TokenNot},
	{"(", TokenLParen},
	{")", TokenRParen},
	{",", TokenComma},
}

var keywords = map[string]TokenType{
	"forall": TokenForall,
	"exists": TokenExists,
}

// Lexer scans formula text into tokens.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

// NewLexer returns a new Lexer with the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0),
	}
}

// Tokenize processes the entire input and produces the list of tokens,
// terminated by TokenEOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		switch {
		case unicode.IsSpace(r):
			l.position += size
		case isIdentStart(r):
			l.lexIdent()
		default:
			if !l.lexSymbol() {
				return nil, &SyntaxError{Pos: l.position, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
		}
	}

	l.addToken(TokenEOF, "", l.position)
	return l.tokens, nil
}

func (l *Lexer) lexSymbol() bool {
	rest := l.input[l.position:]
	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym.text) {
			l.addToken(sym.typ, sym.text, l.position)
			l.position += len(sym.text)
			return true
		}
	}
	return false
}

// lexIdent scans an identifier. "forall" and "exists" become quantifier tokens.
func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !isIdentPart(r) {
			break
		}
		l.position += size
	}

	word := l.input[start:l.position]
	if typ, ok := keywords[word]; ok {
		l.addToken(typ, word, start)
		return
	}
	l.addToken(TokenIdent, word, start)
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '\''
}
