// Package pseudocode interprets the Cambridge (CAIE/IGCSE) pseudocode
// notation.
//
// The package covers what an editor or a teaching tool needs:
//   - Syntax checking that reports every lexical and syntax error at once
//   - Batch execution with pre-supplied input
//   - Step-wise execution that suspends at INPUT until a value is supplied
//   - An in-memory file system for OPENFILE, READFILE, WRITEFILE and
//     random-access records
//   - Completion and hover for source that is still being typed
//
// # Quick Start
//
// For simple one-off execution:
//
//	output, err := pseudocode.Run(`OUTPUT "Hello"`, nil, nil)
//
// With input values:
//
//	output, err := pseudocode.Run(src, []string{"5", "7"}, &pseudocode.Config{Seed: 1})
//
// # Engine
//
// An [Engine] holds the state an editor needs between calls: virtual files
// and a step-wise session.
//
//	e := pseudocode.NewEngine(nil)
//	if r := e.ParseForExecution(src); !r.Valid {
//	    // show r.Diagnostics
//	}
//	for e.HasMoreStatements() {
//	    info := e.NextStatementInfo()
//	    if info.IsInput {
//	        if msg := e.ValidateInputVariable(info.InputVariable); msg != "" {
//	            // report msg, do not prompt
//	        }
//	        e.AddInput(prompt())
//	    }
//	    step := e.ExecuteNextStatement()
//	    // append step.Output, show step.Diagnostics
//	}
//
// # Error Handling
//
// Engine methods never panic and return diagnostics as data. The
// package-level Run and Compile return typed errors:
//   - [SyntaxError]: lexical, syntax and semantic errors found before running
//   - [RuntimeError]: the first failure during execution
//
// # Thread Safety
//
// Compiled [Program] objects are safe for concurrent use. An [Engine] is
// meant for a single caller.
package pseudocode
