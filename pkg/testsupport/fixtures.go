// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// LoadFixture returns the raw bytes of a testdata file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON testdata file into v. Unknown keys are
// rejected so fixtures stay in sync with the message types they describe.
func LoadGolden(path string, v any) error {
	data, err := LoadFixture(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("testsupport: %s: %w", path, err)
	}
	return nil
}
