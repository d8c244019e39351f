// Package errors provides structured, actionable error messages for geo.
//
// Every error carries a stable code that maps to a short message, a longer
// explanation and a documentation anchor. Packages wrap their sentinel errors
// in a GeoError when the failure is shown to an operator (CLI output, startup
// validation), and keep plain wrapped errors on hot paths.
//
// # Error Categories
//
//   - routing: route table construction, matching and resolution
//   - config: geo.yaml and environment problems
//   - store: SQLite and migration failures
//   - llm: chat-completion calls used for scoring and article generation
//   - publish: article publishing backends
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`route name "prompts" is declared twice`).
//	    WithSuggestion("Give every route entry a unique name")
//
//	errors.PrintError(err)
//	// ERROR E101: Duplicate route name
//	//
//	//   route name "prompts" is declared twice
//	//
//	//   Hint: Give every route entry a unique name
package errors
