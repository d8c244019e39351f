package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Explain  string
	DocURL   string
}

const docBase = "https://geo.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryRouting,
		Message:  "No route matches path",
		Explain:  "The requested path matched none of the declared route entries. Entries are tested in declaration order and there is no catch-all entry.",
		DocURL:   docBase + "E100",
	},
	"E101": {
		Category: CategoryRouting,
		Message:  "Duplicate route name",
		Explain:  "Route names identify entries for programmatic navigation and must be unique within a table.",
		DocURL:   docBase + "E101",
	},
	"E102": {
		Category: CategoryRouting,
		Message:  "Invalid route pattern",
		Explain:  "Patterns are slash separated static segments, :name parameters with an optional :name:type suffix, and an optional trailing *name catch-all.",
		DocURL:   docBase + "E102",
	},
	"E103": {
		Category: CategoryRouting,
		Message:  "Unknown route name",
		Explain:  "Navigation by name referenced a route that is not declared in the table.",
		DocURL:   docBase + "E103",
	},
	"E104": {
		Category: CategoryRouting,
		Message:  "Missing route parameter",
		Explain:  "Resolving a named route requires a value for every parameter in its pattern.",
		DocURL:   docBase + "E104",
	},
	"E105": {
		Category: CategoryRouting,
		Message:  "Invalid route parameter",
		Explain:  "A parameter value does not satisfy the type declared in the route pattern.",
		DocURL:   docBase + "E105",
	},
	"E106": {
		Category: CategoryRouting,
		Message:  "View failed to load",
		Explain:  "The deferred loader of a route returned an error. The next activation of the route retries the load.",
		DocURL:   docBase + "E106",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Explain:  "geo.yaml could not be read or parsed.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid environment",
		Explain:  "An environment variable could not be parsed into its configuration field.",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Explain:  "A configuration value is outside its allowed range.",
		DocURL:   docBase + "E122",
	},

	// ============================================
	// Store Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryStore,
		Message:  "Database unavailable",
		Explain:  "The SQLite database could not be opened.",
		DocURL:   docBase + "E200",
	},
	"E201": {
		Category: CategoryStore,
		Message:  "Migration failed",
		Explain:  "Applying the embedded schema migrations failed. The database may be dirty; inspect schema_migrations.",
		DocURL:   docBase + "E201",
	},

	// ============================================
	// LLM and Publish Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryLLM,
		Message:  "LLM request failed",
		Explain:  "The chat-completion endpoint returned an error or an unparseable response.",
		DocURL:   docBase + "E300",
	},
	"E301": {
		Category: CategoryLLM,
		Message:  "LLM API key missing",
		Explain:  "No API key is configured for the chat-completion endpoint.",
		DocURL:   docBase + "E301",
	},
	"E310": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Explain:  "The article could not be written to the configured publishing backend.",
		DocURL:   docBase + "E310",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Explain:  "The command received malformed arguments.",
		DocURL:   docBase + "E140",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
