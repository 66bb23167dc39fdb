package langsvc

import (
	"github.com/kolkov/pseudocode/internal/token"
)

// statementKeywords may begin a statement or close a block.
var statementKeywords = []string{
	"DECLARE", "CONSTANT", "TYPE", "ENDTYPE",
	"FUNCTION", "ENDFUNCTION", "PROCEDURE", "ENDPROCEDURE", "RETURN",
	"IF", "ELSE", "ENDIF",
	"CASE", "OTHERWISE", "ENDCASE",
	"FOR", "NEXT", "WHILE", "ENDWHILE", "REPEAT", "UNTIL", "BREAK",
	"CALL", "INPUT", "OUTPUT",
	"OPENFILE", "CLOSEFILE", "READFILE", "WRITEFILE", "SEEK", "GETRECORD", "PUTRECORD",
}

// expressionKeywords are offered while typing an expression.
var expressionKeywords = []string{
	"AND", "OR", "NOT", "TRUE", "FALSE", "MOD", "DIV",
	"TO", "THEN", "DO", "OF", "STEP",
}

// typeKeywords are offered in type positions.
var typeKeywords = []string{
	"INTEGER", "REAL", "STRING", "CHAR", "BOOLEAN", "DATE", "ARRAY",
}

var keywordDocs = map[string]string{
	"DECLARE":      "Declares a variable or array: DECLARE name : type",
	"CONSTANT":     "Declares a constant value: CONSTANT name = value",
	"TYPE":         "Declares a record type: TYPE name ... ENDTYPE",
	"ENDTYPE":      "Ends a TYPE declaration",
	"FUNCTION":     "Defines a function: FUNCTION name(params) RETURNS type",
	"ENDFUNCTION":  "Ends a FUNCTION definition",
	"PROCEDURE":    "Defines a procedure: PROCEDURE name(params)",
	"ENDPROCEDURE": "Ends a PROCEDURE definition",
	"RETURNS":      "Gives the result type of a FUNCTION",
	"RETURN":       "Returns from a routine, with a value in a FUNCTION",
	"IF":           "Conditional statement: IF condition THEN ... ENDIF",
	"THEN":         "Begins the statements run when an IF condition holds",
	"ELSE":         "Begins the statements run when an IF condition fails",
	"ENDIF":        "Ends an IF statement",
	"CASE":         "CASE OF <identifier> - Switch statement",
	"OF":           "Part of CASE OF and ARRAY[...] OF",
	"OTHERWISE":    "CASE clause taken when no other clause matches",
	"ENDCASE":      "Ends a CASE statement",
	"FOR":          "Counting loop: FOR i <- start TO end [STEP s] ... NEXT i",
	"TO":           "Separates the bounds of a FOR loop or CASE range",
	"STEP":         "Sets the FOR loop increment",
	"NEXT":         "Ends a FOR loop",
	"WHILE":        "Pre-condition loop: WHILE condition DO ... ENDWHILE",
	"DO":           "Begins the body of a WHILE loop",
	"ENDWHILE":     "Ends a WHILE loop",
	"REPEAT":       "Post-condition loop: REPEAT ... UNTIL condition",
	"UNTIL":        "Ends a REPEAT loop with its exit condition",
	"BREAK":        "Leaves the innermost loop",
	"CALL":         "Calls a procedure: CALL name(args)",
	"BYREF":        "Passes the following parameters by reference",
	"BYVAL":        "Passes the following parameters by value",
	"VAR":          "Passes the following parameters by reference",
	"INPUT":        "Reads input from user",
	"OUTPUT":       "Outputs a value",
	"OPENFILE":     "Opens a file: OPENFILE name FOR READ|WRITE|APPEND|RANDOM",
	"CLOSEFILE":    "Closes a file",
	"READFILE":     "Reads a line from a file opened for READ",
	"WRITEFILE":    "Writes a line to a file opened for WRITE or APPEND",
	"SEEK":         "Moves to a record of a file opened for RANDOM",
	"GETRECORD":    "Reads a record from a file opened for RANDOM",
	"PUTRECORD":    "Writes a record to a file opened for RANDOM",
	"READ":         "File mode: read lines",
	"WRITE":        "File mode: write lines, replacing the file",
	"APPEND":       "File mode: write lines at the end of the file",
	"RANDOM":       "File mode: record access with SEEK",
	"AND":          "Logical conjunction",
	"OR":           "Logical disjunction",
	"NOT":          "Logical negation",
	"TRUE":         "BOOLEAN true",
	"FALSE":        "BOOLEAN false",
	"MOD":          "Remainder of integer division",
	"DIV":          "Quotient of integer division",
	"ARRAY":        "Array type declaration",
	"INTEGER":      "Whole number type",
	"REAL":         "Number with a fractional part",
	"STRING":       "Text type",
	"CHAR":         "Single character type",
	"BOOLEAN":      "TRUE or FALSE",
	"DATE":         "Calendar date type, written DD/MM/YYYY",
}

// keywordDoc returns the description of a reserved word.
func keywordDoc(kw string) string {
	if doc, ok := keywordDocs[kw]; ok {
		return doc
	}
	return "Keyword: " + kw
}

// isKeyword reports whether word is reserved, in any case.
func isKeyword(word string) bool {
	return token.Lookup(word) != token.IDENT
}

// keywordInsert returns the text inserted when kw is completed.
func keywordInsert(kw string) string {
	if kw == "CASE" {
		return "CASE OF "
	}
	return kw
}
