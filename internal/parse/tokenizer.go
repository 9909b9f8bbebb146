package parse

import "strings"

// TokenType classifies a token.
type TokenType int

const (
	// TokenSpace is a run of blanks and tabs.
	TokenSpace TokenType = iota
	// TokenText is a run of plain text. Backslash escapes are kept verbatim.
	TokenText
	// TokenString is a quoted string inside a command, quotes included.
	TokenString
	// TokenCommand is the "@" that starts a command.
	TokenCommand
	// TokenOpenBrace is the "{" that opens an inline command.
	TokenOpenBrace
	// TokenCloseBrace is the "}" that closes an inline command.
	TokenCloseBrace
)

var tokenTypeNames = [...]string{"space", "text", "string", "command", "open-brace", "close-brace"}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// Placeholder replaces control characters found in the input.
const Placeholder = "?"

// Token is a single lexical unit of a line.
type Token struct {
	Type   TokenType
	Text   string
	Column int // 0-based, in runes
}

// Tokenizer is a forward cursor over the tokens of one line. Call Advance
// before reading the first token.
type Tokenizer struct {
	source Source
	line   int
	tokens []Token
	index  int
}

// NewTokenizer scans text, the 0-based line of src.
//
// The scanner repairs what it can: unterminated strings and inline commands
// get their closing character, a lone backslash is doubled, an "@" that does
// not start a command is escaped, and control characters become Placeholder.
func NewTokenizer(src Source, line int, text string) *Tokenizer {
	sc := &lineScanner{runes: []rune(text)}
	sc.run()
	return &Tokenizer{source: src, line: line, tokens: sc.tokens, index: -1}
}

// HasNext reports whether another token follows the current one.
func (t *Tokenizer) HasNext() bool { return t.index+1 < len(t.tokens) }

// Advance moves to the next token. It panics if there is none.
func (t *Tokenizer) Advance() {
	if !t.HasNext() {
		panic("parse: advance past end of line")
	}
	t.index++
}

// Reset moves the cursor back before the first token.
func (t *Tokenizer) Reset() { t.index = -1 }

// Token returns the text of the current token.
func (t *Tokenizer) Token() string { return t.tokens[t.index].Text }

// Type returns the type of the current token.
func (t *Tokenizer) Type() TokenType { return t.tokens[t.index].Type }

// Column returns the 0-based column of the current token.
func (t *Tokenizer) Column() int { return t.tokens[t.index].Column }

// Line returns the 0-based line number the tokenizer was created for.
func (t *Tokenizer) Line() int { return t.line }

// Source returns the source the line belongs to.
func (t *Tokenizer) Source() Source { return t.source }

// Tokens returns a copy of all tokens of the line.
func (t *Tokenizer) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

type lineScanner struct {
	runes  []rune
	pos    int
	tokens []Token
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' }

func isControl(r rune) bool { return r < ' ' && r != '\t' }

func (s *lineScanner) emit(typ TokenType, text string, column int) {
	s.tokens = append(s.tokens, Token{Type: typ, Text: text, Column: column})
}

func (s *lineScanner) run() {
	for s.pos < len(s.runes) {
		r := s.runes[s.pos]
		switch {
		case isBlank(r):
			s.scanSpace()
		case isControl(r):
			s.emit(TokenText, Placeholder, s.pos)
			s.pos++
		case r == '@' && s.startsCommand():
			s.scanCommand()
		default:
			s.scanText(false, false)
		}
	}
}

// startsCommand reports whether the "@" at the current position opens a
// command. Inline commands may start anywhere; line commands only in column 0.
func (s *lineScanner) startsCommand() bool {
	next := s.pos + 1
	if next >= len(s.runes) {
		return false
	}
	if s.runes[next] == '{' {
		after := next + 1
		if after >= len(s.runes) {
			return false
		}
		r := s.runes[after]
		return !isBlank(r) && !isControl(r) && r != '}'
	}
	r := s.runes[next]
	return s.pos == 0 && !isBlank(r) && !isControl(r)
}

func (s *lineScanner) scanSpace() {
	start := s.pos
	for s.pos < len(s.runes) && isBlank(s.runes[s.pos]) {
		s.pos++
	}
	s.emit(TokenSpace, string(s.runes[start:s.pos]), start)
}

func (s *lineScanner) scanCommand() {
	s.emit(TokenCommand, "@", s.pos)
	s.pos++
	inline := false
	if s.pos < len(s.runes) && s.runes[s.pos] == '{' {
		s.emit(TokenOpenBrace, "{", s.pos)
		s.pos++
		inline = true
	}
	for s.pos < len(s.runes) {
		r := s.runes[s.pos]
		switch {
		case isBlank(r):
			s.scanSpace()
		case isControl(r):
			s.emit(TokenText, Placeholder, s.pos)
			s.pos++
		case r == '"':
			s.scanString()
		case inline && r == '}':
			s.emit(TokenCloseBrace, "}", s.pos)
			s.pos++
			return
		default:
			s.scanText(true, inline)
		}
	}
	if inline {
		s.emit(TokenCloseBrace, "}", s.pos)
	}
}

func (s *lineScanner) scanString() {
	start := s.pos
	var b strings.Builder
	b.WriteByte('"')
	s.pos++
	for s.pos < len(s.runes) && s.runes[s.pos] != '"' {
		r := s.runes[s.pos]
		if isControl(r) {
			b.WriteString(Placeholder)
		} else {
			b.WriteRune(r)
		}
		s.pos++
	}
	// Consume the closing quote if present; synthesize it otherwise.
	if s.pos < len(s.runes) {
		s.pos++
	}
	b.WriteByte('"')
	s.emit(TokenString, b.String(), start)
}

func (s *lineScanner) scanText(inCommand, inline bool) {
	start := s.pos
	var b strings.Builder
	for s.pos < len(s.runes) {
		r := s.runes[s.pos]
		if isBlank(r) || isControl(r) {
			break
		}
		if inCommand {
			if r == '"' || (inline && r == '}') {
				break
			}
		} else if r == '@' {
			if s.startsCommand() {
				break
			}
			b.WriteString(`\@`)
			s.pos++
			continue
		}
		if r == '\\' {
			if s.pos+1 < len(s.runes) && (s.runes[s.pos+1] == '\\' || s.runes[s.pos+1] == '@') {
				b.WriteRune('\\')
				b.WriteRune(s.runes[s.pos+1])
				s.pos += 2
				continue
			}
			b.WriteString(`\\`)
			s.pos++
			continue
		}
		b.WriteRune(r)
		s.pos++
	}
	s.emit(TokenText, b.String(), start)
}
