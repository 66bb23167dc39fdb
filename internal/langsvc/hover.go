package langsvc

import (
	"fmt"
	"strings"

	"github.com/kolkov/pseudocode/internal/semantic"
)

// HoverResult is the markdown shown for the word under the cursor.
type HoverResult struct {
	Contents string `json:"contents"`
}

// Hover describes the identifier at column col (1-based) on line line of
// src. The word is resolved as a keyword, then a built-in function, then a
// symbol in scope on that line. It reports false when nothing matches.
func Hover(src string, line, col int) (HoverResult, bool) {
	word := wordAt(src, line, col)
	if word == "" {
		return HoverResult{}, false
	}

	if isKeyword(word) {
		kw := strings.ToUpper(word)
		return HoverResult{Contents: fmt.Sprintf("**%s**\n\n%s", kw, keywordDoc(kw))}, true
	}

	res := collect(src)
	// A user routine named like a built-in replaces it.
	if info, ok := semantic.GetBuiltinInfo(word); ok && !shadowedBuiltin(res, word) {
		return HoverResult{Contents: fmt.Sprintf("**%s**\n\n%s", info.Signature(), info.Doc)}, true
	}

	sym, ok := lookup(res, word, line)
	if !ok {
		return HoverResult{}, false
	}
	var text string
	switch sym.Kind {
	case semantic.SymbolVariable:
		text = fmt.Sprintf("**Variable:** `%s: %s`", sym.Name, sym.Type)
	case semantic.SymbolParameter:
		mode := "BYVAL"
		if sym.ByRef {
			mode = "BYREF"
		}
		text = fmt.Sprintf("**Parameter:** `%s %s: %s`", mode, sym.Name, sym.Type)
	case semantic.SymbolConstant:
		text = fmt.Sprintf("**Constant:** `%s`", constantText(sym))
	case semantic.SymbolFunction:
		text = fmt.Sprintf("**Function:** `%s`", signature(sym))
	case semantic.SymbolProcedure:
		text = fmt.Sprintf("**Procedure:** `%s`", signature(sym))
	case semantic.SymbolType:
		text = fmt.Sprintf("**Type:** `%s`", sym.Name)
		if f := fields(sym.Type); f != "" {
			text += "\n\nFields: " + f
		}
	default:
		return HoverResult{}, false
	}
	return HoverResult{Contents: text}, true
}
