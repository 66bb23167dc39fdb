package langsvc

import (
	"strings"

	"github.com/kolkov/pseudocode/internal/parser"
	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/types"
)

// collect parses src tolerantly and returns its declarations. A failure
// anywhere in analysis yields an empty result rather than a panic.
func collect(src string) (res *semantic.ResolveResult) {
	defer func() {
		if recover() != nil {
			res = nil
		}
	}()
	prog, _ := parser.ParseTolerant(src)
	return semantic.Collect(prog)
}

// visible returns the symbols in scope on line, in declaration order.
// Globals are always visible; a routine's parameters and locals only on
// the lines of its declaration. A later declaration of the same name
// replaces an earlier one.
func visible(res *semantic.ResolveResult, line int) []*semantic.Symbol {
	if res == nil {
		return nil
	}
	index := make(map[string]int)
	var out []*semantic.Symbol
	for _, d := range res.Decls {
		if d.Routine != nil && !d.Routine.Span().ContainsLine(line) {
			continue
		}
		key := semantic.Key(d.Symbol.Name)
		if i, ok := index[key]; ok {
			out[i] = d.Symbol
			continue
		}
		index[key] = len(out)
		out = append(out, d.Symbol)
	}
	return out
}

// lookup finds name among the symbols visible on line.
func lookup(res *semantic.ResolveResult, name string, line int) (*semantic.Symbol, bool) {
	key := semantic.Key(name)
	var found *semantic.Symbol
	for _, sym := range visible(res, line) {
		if semantic.Key(sym.Name) == key {
			found = sym
		}
	}
	return found, found != nil
}

// signature formats a routine header: Name(a: INTEGER, BYREF b: REAL)
// followed by RETURNS T for functions.
func signature(sym *semantic.Symbol) string {
	var sb strings.Builder
	sb.WriteString(sym.Name)
	sb.WriteByte('(')
	for i, p := range sym.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.ByRef {
			sb.WriteString("BYREF ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	sb.WriteByte(')')
	if sym.Kind == semantic.SymbolFunction {
		sb.WriteString(" RETURNS ")
		sb.WriteString(sym.Type.String())
	}
	return sb.String()
}

// fields lists the fields of a record type: X: INTEGER, Y: INTEGER.
func fields(t *types.Type) string {
	if t == nil {
		return ""
	}
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return strings.Join(parts, ", ")
}
