package notation

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a tab document.
type Format int

const (
	YAML Format = iota
	JSON
)

// FormatOf guesses the format from a file name: ".json" is JSON, anything
// else YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// ReadTab reads a tab document, either in JSON or YAML.
func ReadTab(r io.Reader) (*Tab, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading tab: %w", err)
	}
	var tab Tab
	if errJSON := json.Unmarshal(b, &tab); errJSON != nil {
		tab = Tab{}
		if errYaml := yaml.Unmarshal(b, &tab); errYaml != nil {
			return nil, fmt.Errorf("unmarshaling tab: %v / %v", errYaml, errJSON)
		}
	}
	return &tab, nil
}

// Write encodes the tab in the given format.
func (t *Tab) Write(w io.Writer, format Format) error {
	var contents []byte
	var err error
	if format == JSON {
		contents, err = json.MarshalIndent(t, "", "  ")
	} else {
		contents, err = yaml.Marshal(t)
	}
	if err != nil {
		return fmt.Errorf("marshaling tab: %w", err)
	}
	if _, err := w.Write(contents); err != nil {
		return fmt.Errorf("writing tab: %w", err)
	}
	return nil
}
