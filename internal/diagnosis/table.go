package diagnosis

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed diseases.yaml
var embeddedTable []byte

// #region types
// Treatment holds organic and chemical remedies.
type Treatment struct {
	Organic  string `yaml:"organic" json:"organic"`
	Chemical string `yaml:"chemical" json:"chemical"`
}

// Entry is the localized text for one disease class.
type Entry struct {
	ID         int       `yaml:"id"`
	Disease    string    `yaml:"disease"`
	Severity   string    `yaml:"severity"`
	Symptoms   []string  `yaml:"symptoms"`
	Treatment  Treatment `yaml:"treatment"`
	Prevention string    `yaml:"prevention"`
}

type tableFile struct {
	DefaultLanguage string             `yaml:"default_language"`
	Languages       map[string][]Entry `yaml:"languages"`
}

// #endregion types

// #region table
// Table is the read-only diagnosis lookup keyed by (class id, language).
// It is never mutated after loading and is safe for concurrent reads.
type Table struct {
	defaultLang string
	entries     map[string][]Entry
}

// DefaultTable parses the embedded table.
func DefaultTable() (*Table, error) {
	return ParseTable(embeddedTable)
}

// LoadTable reads a YAML table from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagnosis table %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses and validates a YAML table.
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse diagnosis table: %w", err)
	}
	if f.DefaultLanguage == "" {
		return nil, fmt.Errorf("diagnosis table: default_language missing")
	}
	if len(f.Languages[f.DefaultLanguage]) == 0 {
		return nil, fmt.Errorf("diagnosis table: no entries for default language %q", f.DefaultLanguage)
	}
	for lang, entries := range f.Languages {
		if len(entries) == 0 {
			return nil, fmt.Errorf("diagnosis table: language %q has no entries", lang)
		}
	}
	return &Table{defaultLang: f.DefaultLanguage, entries: f.Languages}, nil
}

// Classes is the number of disease classes, taken from the default language.
func (t *Table) Classes() int {
	return len(t.entries[t.defaultLang])
}

// DefaultLanguage returns the fallback language code.
func (t *Table) DefaultLanguage() string {
	return t.defaultLang
}

// Languages returns the supported language codes, sorted.
func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.entries))
	for l := range t.entries {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Resolve returns lang if supported, else the default language.
func (t *Table) Resolve(lang string) string {
	if _, ok := t.entries[lang]; ok {
		return lang
	}
	return t.defaultLang
}

// Lookup returns the entry for classID in the resolved language. A missing id
// falls back to the first entry of that language.
func (t *Table) Lookup(classID int, lang string) Entry {
	entries := t.entries[t.Resolve(lang)]
	for _, e := range entries {
		if e.ID == classID {
			return e
		}
	}
	return entries[0]
}

// #endregion table
