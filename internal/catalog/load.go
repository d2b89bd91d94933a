// Package catalog loads the hand-curated YouTube, live and zen catalogues.
//
// Catalogue files may be JSON, YAML or TOML; the format is chosen by file
// extension. Struct catalogues are validated with their `validate` tags.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	tempoerrors "github.com/tessro/tempo/internal/errors"
)

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported catalogue format")

// Extensions are the file extensions Load understands, in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

var validate = validator.New()

// Load reads the catalogue at path into v.
func Load(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", tempoerrors.ErrCatalogMissing, path)
		}
		return fmt.Errorf("read catalogue: %w", err)
	}
	if err := Decode(data, filepath.Ext(path), v); err != nil {
		return fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Decode parses data in the format named by ext into v and validates it.
func Decode(data []byte, ext string, v any) error {
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	case ".toml":
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}
	return Validate(v)
}

// Validate checks struct tags on v. Non-struct values always pass.
func Validate(v any) error {
	err := validate.Struct(v)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}
	return fmt.Errorf("invalid catalogue: %w", err)
}

// Resolve returns explicit when set, otherwise the first existing
// dir/name.<ext>. It returns "" when nothing is found.
func Resolve(explicit, dir, name string) string {
	if explicit != "" {
		return explicit
	}
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
