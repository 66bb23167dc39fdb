package semantic

import (
	"sort"
	"strings"

	"github.com/kolkov/pseudocode/internal/ast"
	"github.com/kolkov/pseudocode/internal/token"
	"github.com/kolkov/pseudocode/internal/types"
)

// SymbolKind defines the category of a symbol.
type SymbolKind int

const (
	SymbolVariable  SymbolKind = iota // DECLAREd variable
	SymbolConstant                    // CONSTANT
	SymbolParameter                   // Routine parameter
	SymbolFunction                    // FUNCTION
	SymbolProcedure                   // PROCEDURE
	SymbolType                        // Record TYPE
)

// String returns a human-readable name for the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolParameter:
		return "parameter"
	case SymbolFunction:
		return "function"
	case SymbolProcedure:
		return "procedure"
	case SymbolType:
		return "type"
	default:
		return "unknown"
	}
}

// Symbol holds information about a declared name.
type Symbol struct {
	Name string         // Declared spelling
	Kind SymbolKind     // Category
	Type *types.Type    // Value type; return type for functions; the record type for TYPE
	Pos  token.Position // Declaration position

	Value types.Value // Folded value of a constant, if known
	ByRef bool        // Reference parameter

	// Routines only.
	Params []*Symbol
	Decl   *ast.FuncDecl
}

// IsStorage returns true if the symbol names a storage slot.
func (s *Symbol) IsStorage() bool {
	return s.Kind == SymbolVariable || s.Kind == SymbolConstant || s.Kind == SymbolParameter
}

// IsRoutine returns true for functions and procedures.
func (s *Symbol) IsRoutine() bool {
	return s.Kind == SymbolFunction || s.Kind == SymbolProcedure
}

// Key normalizes a name for lookup. Names are case-insensitive.
func Key(name string) string {
	return strings.ToUpper(name)
}

// Scope implements a hierarchical symbol table. The global scope has no
// parent; each routine gets a scope whose parent is the global scope.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
	name    string // Scope name (routine name or "global")
}

// NewScope creates a new scope with the given parent.
// Pass nil for the global scope.
func NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
		name:    name,
	}
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// Parent returns the parent scope, or nil for the global scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define adds sym to this scope. If the name was already declared in this
// scope the new symbol replaces it and the previous one is returned.
func (s *Scope) Define(sym *Symbol) (prev *Symbol) {
	key := Key(sym.Name)
	prev = s.symbols[key]
	s.symbols[key] = sym
	return prev
}

// Lookup searches for a symbol in this scope and all parent scopes.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	key := Key(name)
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[key]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches for a symbol only in this scope.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.symbols[Key(name)]
	return sym, ok
}

// Symbols returns the symbols of this scope sorted by name.
func (s *Scope) Symbols() []*Symbol {
	out := make([]*Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return Key(out[i].Name) < Key(out[j].Name) })
	return out
}

// Names returns the declared spellings of every name visible from s.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for scope := s; scope != nil; scope = scope.parent {
		for key, sym := range scope.symbols {
			if !seen[key] {
				seen[key] = true
				out = append(out, sym.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Count returns the number of symbols in this scope.
func (s *Scope) Count() int {
	return len(s.symbols)
}
