package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// MergeYAMLFile loads a YAML file onto target. Keys present in the file replace the
// corresponding fields; keys absent from the file leave target unchanged, so a file
// that only sets cache.dir keeps the default price TTL. Unknown keys are an error.
func MergeYAMLFile(target *Config, path string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAMLFile")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err = MergeYAML(target, data); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// MergeYAML decodes YAML bytes onto target with the same rules as MergeYAMLFile.
func MergeYAML(target *Config, data []byte) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// Empty or comment-only file: nothing to merge.
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
