// Package category loads the label set offered by the category picker.
package category

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/example/boxlabel/internal/theme"
)

// Category is a label with its display colour.
type Category struct {
	Title string `yaml:"title"`
	Color string `yaml:"color"`
}

// Set is an ordered list of categories; the first one is picked initially.
type Set struct {
	Categories []Category `yaml:"categories"`
}

// Default returns the set used when no file is configured.
func Default() Set {
	return Set{Categories: []Category{
		{Title: "car", Color: "#e6194b"},
		{Title: "person", Color: "#3cb44b"},
		{Title: "bicycle", Color: "#4363d8"},
		{Title: "animal", Color: "#f58231"},
		{Title: "sign", Color: "#911eb4"},
	}}
}

// Load reads a YAML category file. An empty path yields Default.
func Load(path string) (Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read categories: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a category set.
func Parse(r io.Reader) (Set, error) {
	var s Set
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Set{}, fmt.Errorf("decode categories: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Set{}, err
	}
	return s, nil
}

// Validate reports every invalid field.
func (s Set) Validate() error {
	if len(s.Categories) == 0 {
		return criterio.NewFieldErrors("categories", fmt.Errorf("at least one category is required"))
	}
	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(s.Categories))
	for i, c := range s.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		title := strings.TrimSpace(c.Title)
		if title == "" {
			errs = errs.Append(field+".title", fmt.Errorf("title is required"))
		} else if seen[title] {
			errs = errs.Append(field+".title", fmt.Errorf("duplicate title %q", title))
		}
		seen[title] = true
		if err := validColor(c.Color); err != nil {
			errs = errs.Append(field+".color", err)
		}
	}
	return errs.ToError()
}

func validColor(s string) error {
	if _, ok := ParseColor(s); !ok {
		return fmt.Errorf("unknown color %q", s)
	}
	return nil
}

// Len returns the number of categories.
func (s Set) Len() int { return len(s.Categories) }

// At returns the category at i, clamped into range.
func (s Set) At(i int) Category {
	if len(s.Categories) == 0 {
		return Category{}
	}
	i = max(0, min(i, len(s.Categories)-1))
	return s.Categories[i]
}

// ColorOf returns the colour for a title, or "" when unknown.
func (s Set) ColorOf(title string) string {
	for _, c := range s.Categories {
		if c.Title == title {
			return c.Color
		}
	}
	return ""
}

// ParseColor accepts #RRGGBB, #RRGGBBAA or an SVG colour name.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := theme.ParseHex(s)
		return c, err == nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	return c, ok
}
