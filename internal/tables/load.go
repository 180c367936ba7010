package tables

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/playpool/billiard/internal/geometry"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported table file format")

// LoadFile reads a table description from a .json, .yaml or .yml file.
func LoadFile(path string) (geometry.TableSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.TableSpec{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return geometry.TableSpec{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func DecodeJSON(r io.Reader) (geometry.TableSpec, error) {
	var spec geometry.TableSpec
	if err := json.NewDecoder(r).Decode(&spec); err != nil {
		return geometry.TableSpec{}, fmt.Errorf("decode table json: %w", err)
	}
	return spec, nil
}

// DecodeYAML accepts the same document shape as the JSON wire format. The
// YAML tree is normalised to JSON so both paths share one set of field and
// kind checks.
func DecodeYAML(r io.Reader) (geometry.TableSpec, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return geometry.TableSpec{}, fmt.Errorf("decode table yaml: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return geometry.TableSpec{}, fmt.Errorf("decode table yaml: %w", err)
	}
	var spec geometry.TableSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return geometry.TableSpec{}, fmt.Errorf("decode table yaml: %w", err)
	}
	return spec, nil
}

// EncodeYAML writes spec in the YAML form DecodeYAML reads back.
func EncodeYAML(w io.Writer, spec geometry.TableSpec) error {
	raw, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
