package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a course from a .json file or, for any other extension, YAML.
func LoadFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read content file: %w", err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return Content{}, err
	}
	return c, nil
}

// Parse decodes and validates course content. ext selects JSON when it is ".json".
func Parse(data []byte, ext string) (Content, error) {
	var (
		c   Content
		err error
	)
	if strings.EqualFold(ext, ".json") {
		c, err = parseJSON(data)
	} else {
		c, err = parseYAML(data)
	}
	if err != nil {
		return Content{}, err
	}
	if err := Validate(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

func parseJSON(data []byte) (Content, error) {
	var c Content
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&c); err != nil {
		return Content{}, fmt.Errorf("parse json: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Content{}, fmt.Errorf("parse json: multiple documents are not supported")
		}
		return Content{}, fmt.Errorf("parse json: %w", err)
	}
	return c, nil
}

func parseYAML(data []byte) (Content, error) {
	var c Content
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return Content{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Content{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Content{}, fmt.Errorf("parse yaml: %w", err)
	}
	return c, nil
}
