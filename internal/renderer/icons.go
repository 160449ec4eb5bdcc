package renderer

import (
	"embed"
	"path"
	"sort"
	"strings"
)

//go:embed icons/*.svg
var embeddedIcons embed.FS

var builtinIcons = loadBuiltins()

func loadBuiltins() map[string]string {
	entries, err := embeddedIcons.ReadDir("icons")
	if err != nil {
		panic(err)
	}
	icons := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := embeddedIcons.ReadFile(path.Join("icons", e.Name()))
		if err != nil {
			panic(err)
		}
		icons[normalizeIconName(e.Name())] = strings.TrimSpace(string(data))
	}
	return icons
}

// normalizeIconName maps "Check.svg", " check " and "check" to the same key.
func normalizeIconName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimSuffix(name, ".svg")
}

// BuiltinMarkup returns the embedded markup of the built-in icon name.
func BuiltinMarkup(name string) (string, bool) {
	m, ok := builtinIcons[normalizeIconName(name)]
	return m, ok
}

// Builtins returns the sorted names of the built-in icons.
func Builtins() []string {
	names := make([]string, 0, len(builtinIcons))
	for n := range builtinIcons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
