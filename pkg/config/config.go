package config

type ExtensionMapping struct {
	From string   `koanf:"from"`
	To   []string `koanf:"to"`
}

// PatternMapping maps a pattern key ("prefix/suffix") to target keys. The
// order of the patterns list is the order keys are tried when decomposing.
type PatternMapping struct {
	From string   `koanf:"from"`
	To   []string `koanf:"to"`
}

type Configuration struct {
	Extensions     []ExtensionMapping `koanf:"extensions"`
	Patterns       []PatternMapping   `koanf:"patterns"`
	RootMarkers    []string           `koanf:"root_markers"`
	MaxSearchDepth int                `koanf:"max_search_depth"`
	CacheEnabled   bool               `koanf:"cache_enabled"`
	CacheCapacity  int                `koanf:"cache_capacity"`
	IgnoreDirs     []string           `koanf:"ignore_dirs"`
	Exclude        []string           `koanf:"exclude"`
	ProjectFile    string             `koanf:"project_file"`

	// raw is the resolved layer stack, kept so project overrides can replace
	// top-level keys on top of it.
	raw map[string]interface{}
}

// ExtensionMap returns the extension mappings keyed by source extension.
func (c *Configuration) ExtensionMap() map[string][]string {
	m := make(map[string][]string, len(c.Extensions))
	for _, e := range c.Extensions {
		m[e.From] = e.To
	}
	return m
}

func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"extensions": []interface{}{
			ext("c", "h"),
			ext("h", "c", "cpp", "cc", "cxx", "m", "mm"),
			ext("cpp", "hpp", "h", "hh", "hxx"),
			ext("cc", "hh", "h", "hpp"),
			ext("cxx", "hxx", "h", "hpp"),
			ext("hpp", "cpp", "cc", "cxx"),
			ext("hh", "cc", "cpp"),
			ext("hxx", "cxx", "cpp"),
			ext("m", "h"),
			ext("mm", "h"),
		},
		"patterns": []interface{}{
			ext("", "/_test", "/_spec", "test_/"),
			ext("/_test", ""),
			ext("/_spec", ""),
			ext("test_/", ""),
		},
		"root_markers": []interface{}{
			".git", ".hg", ".svn", ".root", "go.mod", "package.json", "Cargo.toml",
			"pyproject.toml", "compile_commands.json", "Makefile",
		},
		"max_search_depth": 10,
		"cache_enabled":    true,
		"cache_capacity":   100,
		"ignore_dirs":      []interface{}{},
		"exclude":          []interface{}{},
		"project_file":     ".otherfile.yml",
	}
}

func ext(from string, to ...string) map[string]interface{} {
	targets := make([]interface{}, 0, len(to))
	for _, t := range to {
		targets = append(targets, t)
	}
	return map[string]interface{}{"from": from, "to": targets}
}
