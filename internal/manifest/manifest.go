// Package manifest loads a project's paw.yaml, the optional file that
// supplies default build settings for `cmd/pawc -project <dir>` so a bare
// `pawc file.paw` invocation still works without one.
package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of a project's paw.yaml.
type Manifest struct {
	Module  string `yaml:"module"`
	Root    string `yaml:"root"`
	Backend string `yaml:"backend"`
	Stdlib  string `yaml:"stdlib"`
}

// FileName is the manifest's conventional name within a project directory.
const FileName = "paw.yaml"

// Load reads and parses <dir>/paw.yaml. A missing file is not an error:
// it returns a zero-value Manifest and a nil error, matching spec.md's
// "manifest is additive configuration, not a requirement" rule.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ResolveRoot returns the manifest's root source file joined onto dir (or
// unchanged when it is already absolute), or "" if the manifest names none.
func (m *Manifest) ResolveRoot(dir string) string {
	if m.Root == "" {
		return ""
	}
	if filepath.IsAbs(m.Root) {
		return m.Root
	}
	return filepath.Join(dir, m.Root)
}
