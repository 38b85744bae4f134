// Package internal provides the batch checking engine for proof files.
//
// Key components:
//
// Engine: loads .aprf documents and runs every enabled ProofCheck over the
// proof they hold. Checks run concurrently and their issues are merged in
// line order.
//
// ProofCheck: the interface every check implements. The built-in checks
// verify each derived line, report lines using a rule the configuration
// forbids, report unmet goals, and flag documents whose hash does not match.
//
// Cache: remembers the issues of a file until its contents, the
// configuration, or the entry's age says otherwise.
//
// Watcher: re-checks proof files as they are saved.
//
// Usage:
//
//	engine, err := internal.NewEngine(config.Rules)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("homework/week1.aprf")
//	if err != nil {
//	    // the file could not be loaded
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s:%d: %s\n", issue.Filename, issue.Line, issue.Message)
//	}
package internal
