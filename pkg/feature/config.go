package feature

// Config is the parsed config.toml of a feature plus the fields derived
// while loading it. It is serialized as the feature's meta.json.
type Config struct {
	Dependencies []string          `toml:"dependencies" json:"dependencies"`
	Aliases      []string          `toml:"aliases" json:"aliases"`
	License      string            `toml:"license" json:"license,omitempty"`
	Spec         string            `toml:"spec" json:"spec,omitempty"`
	Docs         string            `toml:"docs" json:"docs,omitempty"`
	Repo         string            `toml:"repo" json:"repo,omitempty"`
	Notes        []string          `toml:"notes" json:"notes,omitempty"`
	Browsers     map[string]string `toml:"browsers" json:"browsers,omitempty"`
	Build        BuildConfig       `toml:"build" json:"build"`
	Test         TestConfig        `toml:"test" json:"test"`

	// Derived while loading.
	DetectSource string `toml:"-" json:"detectSource"`
	Size         int    `toml:"-" json:"size"`
	IsPublic     bool   `toml:"-" json:"isPublic"`
	IsTestable   bool   `toml:"-" json:"isTestable"`
	HasTests     bool   `toml:"-" json:"hasTests"`
	BaseDir      string `toml:"-" json:"baseDir"`
}

// BuildConfig holds the [build] table.
type BuildConfig struct {
	Minify *bool `toml:"minify" json:"minify,omitempty"`
}

// TestConfig holds the [test] table.
type TestConfig struct {
	CI *bool `toml:"ci" json:"ci,omitempty"`
}

// ShouldMinify reports whether the sources are minified. Minification is on
// unless build.minify is explicitly false.
func (c Config) ShouldMinify() bool {
	return c.Build.Minify == nil || *c.Build.Minify
}

// Sources holds the two served variants of a polyfill. Both start with a
// "// <name>" header line and end with a newline.
type Sources struct {
	Raw string
	Min string
}

// Feature is one polyfill unit. Name is taken from Path once and never
// recomputed.
type Feature struct {
	Path    Path
	Name    string
	Config  Config
	Sources Sources
}
