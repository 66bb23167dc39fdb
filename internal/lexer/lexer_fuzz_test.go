package lexer

import (
	"testing"

	"github.com/kolkov/pseudocode/internal/token"
)

// FuzzTokenize checks that the lexer terminates on arbitrary input and
// reports every ILLEGAL token as an error.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		`DECLARE x : INTEGER`,
		`x <- 5 + 3 * 2`,
		`OUTPUT "Hello, World!"`,
		`IF a <> b THEN OUTPUT 'c' ENDIF`,
		`FOR i <- 1 TO 10 STEP 2`,
		`// comment only`,
		``,
		`"unterminated`,
		`'ab'`,
		`5. .5 1.2.3`,
		`"héllo wörld" ü`,
		"\x00\xff\xfe",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks, errs := Tokenize(src)
		if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
			t.Fatal("token stream must end with EOF")
		}
		illegal := 0
		for _, tok := range toks {
			if tok.Type == token.ILLEGAL {
				illegal++
			}
			if tok.Pos.Line < 1 || tok.Pos.Column < 1 || tok.Pos.Offset < 0 {
				t.Errorf("invalid position: %v", tok.Pos)
			}
		}
		if illegal != len(errs) {
			t.Errorf("illegal tokens %d, errors %d", illegal, len(errs))
		}
	})
}
