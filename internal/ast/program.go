package ast

import "github.com/kolkov/pseudocode/internal/token"

// Program represents a complete pseudocode program: the top-level
// statements in source order. Routine and record type declarations appear
// inline as statements and are hoisted by later stages.
type Program struct {
	Stmts []Stmt

	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the program.
func (p *Program) Pos() token.Position { return p.StartPos }

// End returns the position after the last token in the program.
func (p *Program) End() token.Position { return p.EndPos }

// Routines returns the FUNCTION and PROCEDURE declarations in source order.
func (p *Program) Routines() []*FuncDecl {
	var out []*FuncDecl
	for _, s := range p.Stmts {
		if fn, ok := s.(*FuncDecl); ok {
			out = append(out, fn)
		}
	}
	return out
}

// Types returns the record type declarations in source order.
func (p *Program) Types() []*TypeDecl {
	var out []*TypeDecl
	for _, s := range p.Stmts {
		if td, ok := s.(*TypeDecl); ok {
			out = append(out, td)
		}
	}
	return out
}

// IsDeclarationOnly reports whether s is hoisted rather than executed
// in sequence.
func IsDeclarationOnly(s Stmt) bool {
	switch s.(type) {
	case *FuncDecl, *TypeDecl:
		return true
	}
	return false
}
