// Package catalog provides the static reference data used by the application
// form: attachment files, default country and localized country names.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalog errors
var (
	ErrNoAttachments       = errors.New("catalog must list at least one attachment")
	ErrDuplicateAttachment = errors.New("duplicate attachment")
	ErrInvalidCountry      = errors.New("default_country must be an ISO 3166 alpha-2 code")
)

// Catalog is the reference data supplied to the form.
type Catalog struct {
	DefaultCountry string   `yaml:"default_country" json:"defaultCountry"`
	Locale         string   `yaml:"locale" json:"locale"`
	Attachments    []string `yaml:"attachments" json:"attachments"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		DefaultCountry: "FR",
		Locale:         "fr",
		Attachments: []string{
			"CV_Junior_Dev.pdf",
			"Lettre_Motivation.pdf",
			"Portfolio.pdf",
			"Références.pdf",
		},
	}
}

// Load reads a YAML catalog file. Missing keys fall back to the defaults.
// An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	def := Default()
	if c.DefaultCountry == "" {
		c.DefaultCountry = def.DefaultCountry
	}
	if c.Locale == "" {
		c.Locale = def.Locale
	}
	if c.Attachments == nil {
		c.Attachments = def.Attachments
	}
	c.DefaultCountry = strings.ToUpper(strings.TrimSpace(c.DefaultCountry))

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog for consistency.
func (c *Catalog) Validate() error {
	if len(c.Attachments) == 0 {
		return ErrNoAttachments
	}

	seen := make(map[string]bool, len(c.Attachments))
	for _, a := range c.Attachments {
		if seen[a] {
			return fmt.Errorf("%w: %s", ErrDuplicateAttachment, a)
		}
		seen[a] = true
	}

	if !IsCountry(c.DefaultCountry) {
		return fmt.Errorf("%w: %q", ErrInvalidCountry, c.DefaultCountry)
	}
	return nil
}

// HasAttachment reports whether name is part of the attachment catalog.
func (c *Catalog) HasAttachment(name string) bool {
	return slices.Contains(c.Attachments, name)
}
