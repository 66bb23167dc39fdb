package langsvc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolkov/pseudocode/internal/semantic"
	"github.com/kolkov/pseudocode/internal/types"
)

// ItemKind classifies a completion item.
type ItemKind uint8

const (
	KindKeyword ItemKind = iota
	KindFunction
	KindVariable
	KindConstant
	KindType
)

var itemKindNames = [...]string{
	KindKeyword:  "keyword",
	KindFunction: "function",
	KindVariable: "variable",
	KindConstant: "constant",
	KindType:     "type",
}

func (k ItemKind) String() string {
	return itemKindNames[k]
}

// MarshalText encodes the kind by name.
func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CompletionItem is one suggestion.
type CompletionItem struct {
	Label         string   `json:"label"`
	Kind          ItemKind `json:"kind"`
	Detail        string   `json:"detail,omitempty"`
	Documentation string   `json:"documentation,omitempty"`
	InsertText    string   `json:"insert_text"`
}

// Completions returns the suggestions for the cursor before column col
// (1-based) on line line of src, filtered by the word being typed and
// sorted by label.
func Completions(src string, line, col int) []CompletionItem {
	ctx := AnalyzeContext(src, line, col)
	if ctx.Kind == ContextNone {
		return nil
	}

	c := completer{prefix: strings.ToLower(ctx.Prefix), seen: make(map[string]bool)}
	res := collect(src)
	syms := visible(res, ctx.Line)

	switch ctx.Kind {
	case ContextType, ContextReturnType:
		detail := "Type"
		if ctx.Kind == ContextReturnType {
			detail = "Return Type"
		}
		for _, kw := range typeKeywords {
			c.add(CompletionItem{Label: kw, Kind: KindType, Detail: detail, Documentation: keywordDoc(kw), InsertText: kw})
		}
		for _, sym := range syms {
			if sym.Kind == semantic.SymbolType {
				c.add(CompletionItem{
					Label:         sym.Name,
					Kind:          KindType,
					Detail:        "Record Type",
					Documentation: fmt.Sprintf("TYPE %s (%s)", sym.Name, fields(sym.Type)),
					InsertText:    sym.Name,
				})
			}
		}

	case ContextStatement:
		for _, kw := range statementKeywords {
			c.keyword(kw)
		}
		for _, sym := range syms {
			if sym.IsRoutine() {
				c.routine(sym, true)
			}
		}

	default:
		for _, sym := range syms {
			switch {
			case sym.IsRoutine():
				c.routine(sym, false)
			case sym.IsStorage():
				c.storage(sym)
			}
		}
		for _, b := range semantic.Builtins() {
			if shadowedBuiltin(res, b.Name) {
				continue
			}
			c.add(CompletionItem{
				Label:         b.Name,
				Kind:          KindFunction,
				Detail:        "Built-in Function",
				Documentation: b.Signature() + ": " + b.Doc,
				InsertText:    b.Name + "(",
			})
		}
		for _, kw := range expressionKeywords {
			c.keyword(kw)
		}
	}

	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].Label < c.items[j].Label
	})
	return c.items
}

// completer accumulates items that match the typed prefix. The first item
// with a given label wins.
type completer struct {
	prefix string
	seen   map[string]bool
	items  []CompletionItem
}

func (c *completer) add(item CompletionItem) {
	if item.Label == "" || c.seen[item.Label] || !strings.HasPrefix(strings.ToLower(item.Label), c.prefix) {
		return
	}
	c.seen[item.Label] = true
	c.items = append(c.items, item)
}

func (c *completer) keyword(kw string) {
	c.add(CompletionItem{
		Label:         kw,
		Kind:          KindKeyword,
		Detail:        "Keyword",
		Documentation: keywordDoc(kw),
		InsertText:    keywordInsert(kw),
	})
}

// routine adds a user FUNCTION or PROCEDURE. At the start of a statement a
// procedure is inserted with its CALL.
func (c *completer) routine(sym *semantic.Symbol, stmt bool) {
	item := CompletionItem{
		Label:         sym.Name,
		Kind:          KindFunction,
		Documentation: signature(sym),
		InsertText:    sym.Name + "(",
	}
	if sym.Kind == semantic.SymbolProcedure {
		item.Detail = "Procedure"
		if stmt {
			item.InsertText = "CALL " + sym.Name + "("
		}
	} else {
		item.Detail = "Function: " + sym.Type.String()
	}
	c.add(item)
}

func (c *completer) storage(sym *semantic.Symbol) {
	item := CompletionItem{Label: sym.Name, InsertText: sym.Name}
	switch sym.Kind {
	case semantic.SymbolConstant:
		item.Kind = KindConstant
		item.Detail = "Constant"
		item.Documentation = constantText(sym)
	case semantic.SymbolParameter:
		item.Kind = KindVariable
		item.Detail = "Parameter: " + sym.Type.String()
		item.Documentation = "Parameter: " + sym.Name
	default:
		item.Kind = KindVariable
		item.Detail = "Variable: " + sym.Type.String()
		item.Documentation = "Variable: " + sym.Name
	}
	c.add(item)
}

// shadowedBuiltin reports whether a user routine hides the built-in name.
func shadowedBuiltin(res *semantic.ResolveResult, name string) bool {
	if res == nil {
		return false
	}
	_, ok := res.Routine(name)
	return ok
}

// constantText formats a constant with its value when known.
func constantText(sym *semantic.Symbol) string {
	switch sym.Value.Kind() {
	case types.KindNull:
		return sym.Name
	case types.KindString:
		return fmt.Sprintf("%s = %q", sym.Name, sym.Value.String())
	case types.KindChar:
		return fmt.Sprintf("%s = '%s'", sym.Name, sym.Value.String())
	}
	return sym.Name + " = " + sym.Value.String()
}
