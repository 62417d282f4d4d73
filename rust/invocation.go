package rust

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/derivegen/diag"
)

// TokenKind classifies a top-level invocation token.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenLiteral
	TokenPunct
	TokenGroup
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "Ident"
	case TokenLiteral:
		return "Literal"
	case TokenPunct:
		return "Punct"
	case TokenGroup:
		return "Group"
	default:
		return "Unknown"
	}
}

// Token is one top-level token tree of an invocation. A delimited group
// (parentheses, brackets or braces) is a single token.
type Token struct {
	Kind TokenKind
	Text string
}

// Tokenize splits invocation text into top-level token trees. Whitespace
// and comments are skipped. Unbalanced delimiters are reported as
// malformed.
func Tokenize(src string) ([]Token, error) {
	var toks []Token
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case strings.HasPrefix(src[i:], "//"):
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return toks, nil
			}
			i += end + 1
		case strings.HasPrefix(src[i:], "/*"):
			n, ok := blockCommentLen(src[i:])
			if !ok {
				return nil, malformed("unterminated block comment")
			}
			i += n
		case strings.HasPrefix(src[i:], "r#") && i+2 < len(src) && isIdentStart(src[i+2:]):
			n := identLen(src[i+2:])
			toks = append(toks, Token{Kind: TokenIdent, Text: src[i : i+2+n]})
			i += 2 + n
		case r == '_' || unicode.IsLetter(r):
			n := identLen(src[i:])
			toks = append(toks, Token{Kind: TokenIdent, Text: src[i : i+n]})
			i += n
		case unicode.IsDigit(r):
			n := identLen(src[i:])
			toks = append(toks, Token{Kind: TokenLiteral, Text: src[i : i+n]})
			i += n
		case r == '"' || r == '\'':
			n, ok := quotedLen(src[i:], byte(r))
			if !ok {
				return nil, malformed("unterminated literal")
			}
			toks = append(toks, Token{Kind: TokenLiteral, Text: src[i : i+n]})
			i += n
		case r == '(' || r == '[' || r == '{':
			n, err := groupLen(src[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, Token{Kind: TokenGroup, Text: src[i : i+n]})
			i += n
		case r == ')' || r == ']' || r == '}':
			return nil, malformed("unbalanced " + string(r))
		default:
			toks = append(toks, Token{Kind: TokenPunct, Text: string(r)})
			i += size
		}
	}
	return toks, nil
}

// ParseInvocation returns the identifier of an index-type invocation. The
// invocation must consist of exactly one identifier token.
func ParseInvocation(src string) (string, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return "", err
	}
	if len(toks) != 1 {
		return "", diag.WithHint(
			malformedf("should receive exactly one identifier, got %d tokens", len(toks)),
			"invoke as generate_index_type!(FunId)")
	}
	if toks[0].Kind != TokenIdent {
		return "", malformedf("should receive exactly one identifier, got %s %q", toks[0].Kind, toks[0].Text)
	}
	if IsKeyword(toks[0].Text) {
		return "", malformedf("%q is a keyword", toks[0].Text)
	}
	return toks[0].Text, nil
}

func malformed(msg string) error {
	return diag.New(diag.CodeMalformedInvocation, "generate_index_type", msg)
}

func malformedf(format string, args ...any) error {
	return diag.Newf(diag.CodeMalformedInvocation, "generate_index_type", format, args...)
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

func identLen(s string) int {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return i
		}
	}
	return len(s)
}

// blockCommentLen returns the length of the block comment at the start of
// s. Block comments nest.
func blockCommentLen(s string) (int, bool) {
	depth := 0
	for i := 0; i+1 < len(s); {
		switch s[i : i+2] {
		case "/*":
			depth++
			i += 2
		case "*/":
			depth--
			i += 2
			if depth == 0 {
				return i, true
			}
		default:
			i++
		}
	}
	return 0, false
}

// quotedLen returns the length of the quoted literal at the start of s,
// including both quotes.
func quotedLen(s string, quote byte) (int, bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return 0, false
}

// groupLen returns the length of the delimited group at the start of s.
func groupLen(s string) (int, error) {
	var stack []byte
	closing := map[byte]byte{'(': ')', '[': ']', '{': '}'}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '(', '[', '{':
			stack = append(stack, closing[c])
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return 0, malformed("mismatched " + string(c))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1, nil
			}
		case '"':
			n, ok := quotedLen(s[i:], '"')
			if !ok {
				return 0, malformed("unterminated literal")
			}
			i += n - 1
		}
	}
	return 0, malformed("unclosed " + string(s[0]))
}
