package scanner_test

import (
	"testing"

	"github.com/kristofer/glox/pkg/scanner"
)

func TestNextTokenBasics(t *testing.T) {
	source := `var x = 1 + 2.5;
print x >= "hi";`

	want := []scanner.TokenType{
		scanner.TokenVar, scanner.TokenIdentifier, scanner.TokenEqual,
		scanner.TokenNumber, scanner.TokenPlus, scanner.TokenNumber, scanner.TokenSemicolon,
		scanner.TokenPrint, scanner.TokenIdentifier, scanner.TokenGreaterEqual,
		scanner.TokenString, scanner.TokenSemicolon, scanner.TokenEOF,
	}

	s := scanner.New(source)
	for i, wantType := range want {
		tok := s.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (lexeme %q)", i, tok.Type, wantType, tok.Lexeme)
		}
	}
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	s := scanner.New("classic class")
	first := s.Next()
	if first.Type != scanner.TokenIdentifier {
		t.Errorf("got %s, want IDENTIFIER for 'classic'", first.Type)
	}
	second := s.Next()
	if second.Type != scanner.TokenClass {
		t.Errorf("got %s, want CLASS", second.Type)
	}
}

func TestUnterminatedString(t *testing.T) {
	s := scanner.New(`"never closed`)
	tok := s.Next()
	if tok.Type != scanner.TokenError {
		t.Fatalf("got %s, want ERROR", tok.Type)
	}
}

func TestLineTracking(t *testing.T) {
	s := scanner.New("1\n2\n3")
	var lines []int
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		lines = append(lines, tok.Line)
	}
	want := []int{1, 2, 3}
	if len(lines) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("token %d: line %d, want %d", i, lines[i], want[i])
		}
	}
}
