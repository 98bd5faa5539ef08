package css

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type TokenType int8

const (
	ComplexNumber TokenType = iota
	Ident
	Literal
	Space
	Other
)

func (t TokenType) String() string {
	switch t {
	case ComplexNumber:
		return "complex"
	case Ident:
		return "ident"
	case Literal:
		return "literal"
	case Space:
		return "space"
	case Other:
		return "other"
	default:
		return "<unknown>"
	}
}

type Token struct {
	Literal string
	Type    TokenType
	Offset  int
}

func (t Token) String() string {
	switch t.Type {
	case Space:
		return "<space>"
	case ComplexNumber:
		return fmt.Sprintf("complex(%s)", t.Literal)
	case Ident:
		return fmt.Sprintf("ident(%s)", t.Literal)
	case Literal:
		return fmt.Sprintf("literal(%s)", t.Literal)
	default:
		return fmt.Sprintf("other(%s)", t.Literal)
	}
}

func (t Token) is(str string) bool {
	return t.Type == Other && t.Literal == str
}

// Tokenize splits a selector into tokens. It never fails: anything that is
// not recognized becomes a single character token of type Other.
func Tokenize(str string) []Token {
	s := scanner{input: str}
	var list []Token
	for !s.done() {
		tok := s.scan()
		if tok.Type == Space && len(list) > 0 && list[len(list)-1].Type == Space {
			prev := &list[len(list)-1]
			prev.Literal += tok.Literal
			continue
		}
		list = append(list, tok)
	}
	return list
}

type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) scan() Token {
	var (
		offset = s.pos
		kind   TokenType
		size   int
	)
	switch {
	case s.operator() > 0:
		kind, size = Other, s.operator()
	case s.complex() > 0:
		kind, size = ComplexNumber, s.complex()
	case s.ident() > 0:
		kind, size = Ident, s.ident()
	case s.quote() > 0:
		kind, size = Literal, s.quote()
	case s.blank() > 0:
		kind, size = Space, s.blank()
	default:
		_, size = utf8.DecodeRuneInString(s.input[s.pos:])
		kind = Other
	}
	s.pos += size
	return Token{
		Literal: s.input[offset:s.pos],
		Type:    kind,
		Offset:  offset,
	}
}

func (s *scanner) rest() string {
	return s.input[s.pos:]
}

func (s *scanner) operator() int {
	str := s.rest()
	if strings.HasPrefix(str, "::") {
		return 2
	}
	if str == "" {
		return 0
	}
	if str[0] == '=' {
		return 1
	}
	if len(str) >= 2 && str[1] == '=' && strings.IndexByte("~|^$*!", str[0]) >= 0 {
		return 2
	}
	return 0
}

func (s *scanner) complex() int {
	str := s.rest()
	i := skipSign(str, 0)
	j := skipDigits(str, i)
	if j == i || j >= len(str) || (str[j] != 'n' && str[j] != 'N') {
		return 0
	}
	j++
	return j + complexOffset(str[j:])
}

// complexOffset measures the optional "+B" part following the n of a complex
// number. Both "+1" and "+ 1" forms are accepted with blanks before the sign.
func complexOffset(str string) int {
	i := skipBlanks(str, 0)
	if k := skipDigits(str, skipSign(str, i)); k > skipSign(str, i) {
		return k
	}
	if i >= len(str) || (str[i] != '+' && str[i] != '-') {
		return 0
	}
	i++
	j := skipBlanks(str, i)
	if j == i {
		return 0
	}
	k := skipSign(str, j)
	if x := skipDigits(str, k); x > k {
		return x
	}
	return 0
}

func (s *scanner) ident() int {
	var (
		str = s.rest()
		i   int
	)
	for i < len(str) {
		c := str[i]
		switch {
		case isNameChar(c):
			i++
		case c >= utf8.RuneSelf:
			_, z := utf8.DecodeRuneInString(str[i:])
			i += z
		case c == '\\' && i+1 < len(str):
			i += escapeLength(str[i:])
		default:
			return i
		}
	}
	return i
}

func escapeLength(str string) int {
	n := 1
	for n < len(str) && n <= 6 && isHex(str[n]) {
		n++
	}
	if n > 1 {
		return n
	}
	_, z := utf8.DecodeRuneInString(str[1:])
	return 1 + z
}

func (s *scanner) quote() int {
	str := s.rest()
	if str == "" || (str[0] != '"' && str[0] != '\'') {
		return 0
	}
	for i := 1; i < len(str); i++ {
		switch str[i] {
		case '\\':
			if i+1 < len(str) {
				_, z := utf8.DecodeRuneInString(str[i+1:])
				i += z
			}
		case str[0]:
			return i + 1
		}
	}
	return 0
}

func (s *scanner) blank() int {
	var (
		str = s.rest()
		i   int
	)
	for i < len(str) {
		if isBlank(str[i]) {
			i++
			continue
		}
		if strings.HasPrefix(str[i:], "/*") {
			end := strings.Index(str[i+2:], "*/")
			if end < 0 {
				break
			}
			i += end + 4
			continue
		}
		break
	}
	return i
}

func skipSign(str string, i int) int {
	if i < len(str) && (str[i] == '+' || str[i] == '-') {
		i++
	}
	return i
}

func skipDigits(str string, i int) int {
	for i < len(str) && isDigit(str[i]) {
		i++
	}
	return i
}

func skipBlanks(str string, i int) int {
	for i < len(str) && isBlank(str[i]) {
		i++
	}
	return i
}

// unescape resolves css escapes: a backslash followed by 1 to 6 hexadecimal
// digits is replaced by the matching code point, a backslash followed by any
// other character by that character.
func unescape(str string) string {
	if strings.IndexByte(str, '\\') < 0 {
		return str
	}
	var buf strings.Builder
	for i := 0; i < len(str); {
		if str[i] != '\\' || i+1 >= len(str) {
			buf.WriteByte(str[i])
			i++
			continue
		}
		n := escapeLength(str[i:])
		if isHex(str[i+1]) {
			cp, _ := strconv.ParseUint(str[i+1:i+n], 16, 32)
			r := rune(cp)
			if cp == 0 || !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			buf.WriteRune(r)
		} else {
			buf.WriteString(str[i+1 : i+n])
		}
		i += n
	}
	return buf.String()
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameChar(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '-'
}
