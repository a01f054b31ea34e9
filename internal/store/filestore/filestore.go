package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/jotlist/internal/model"
)

// File dumps of the item list, used by export/import.
// Format follows the extension: .yaml/.yml is YAML, anything else JSON.

// Format names a dump encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatFor picks the encoding for path.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Load reads items from path. The file must exist; the error then wraps
// os.ErrNotExist.
func Load(path string) ([]model.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	items := []model.Item{}
	switch FormatFor(path) {
	case YAML:
		if err := yaml.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("yaml unmarshal: %w", err)
		}
	default:
		if err := json.Unmarshal(b, &items); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Save writes items to path, replacing any existing file.
func Save(path string, items []model.Item) error {
	if items == nil {
		items = []model.Item{}
	}
	var (
		b   []byte
		err error
	)
	switch FormatFor(path) {
	case YAML:
		b, err = yaml.Marshal(items)
		if err != nil {
			return fmt.Errorf("yaml marshal: %w", err)
		}
	default:
		b, err = json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		b = append(b, '\n')
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
