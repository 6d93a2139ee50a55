package review

// Builtin names, in display order.
var Builtin = []string{"anthropic", "openai", "gemini", "ollama"}

// NewBuiltinRegistry registers the four built-in providers, each configured
// from settings[name], and makes defaultName the default.
func NewBuiltinRegistry(settings map[string]Settings, defaultName string) *Registry {
	r := NewRegistry()
	for _, name := range Builtin {
		s := settings[name]
		var p Provider
		switch name {
		case "anthropic":
			p = NewAnthropic(s)
		case "openai":
			p = NewOpenAI(s)
		case "gemini":
			p = NewGemini(s)
		case "ollama":
			p = NewOllama(s)
		}
		// Built-in names are unique.
		_ = r.Register(p)
	}
	r.SetDefault(defaultName)
	return r
}
