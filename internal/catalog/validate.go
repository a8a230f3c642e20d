package catalog

import (
	"fmt"
	"regexp"

	"github.com/wonny/aistocks/internal/contracts"
)

// ValidationError names the offending catalog field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks catalog invariants: at least one instrument, unique names,
// #RRGGBB colors, unique category names, and category members that exist.
func Validate(cat *contracts.Catalog) error {
	if len(cat.Instruments) == 0 {
		return ValidationError{"instruments", "at least one instrument is required"}
	}

	names := make(map[string]struct{}, len(cat.Instruments))
	for i, inst := range cat.Instruments {
		field := fmt.Sprintf("instruments[%d]", i)
		if inst.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if _, dup := names[inst.Name]; dup {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate instrument %q", inst.Name)}
		}
		if !colorPattern.MatchString(inst.Color) {
			return ValidationError{field + ".color", fmt.Sprintf("must be #RRGGBB, got %q", inst.Color)}
		}
		names[inst.Name] = struct{}{}
	}

	categories := make(map[string]struct{}, len(cat.Categories))
	for i, c := range cat.Categories {
		field := fmt.Sprintf("categories[%d]", i)
		if c.Name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if c.Name == contracts.CategoryAll {
			return ValidationError{field + ".name", fmt.Sprintf("%q is reserved", contracts.CategoryAll)}
		}
		if _, dup := categories[c.Name]; dup {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate category %q", c.Name)}
		}
		categories[c.Name] = struct{}{}

		for _, m := range c.Members {
			if _, ok := names[m]; !ok {
				return ValidationError{field + ".members", fmt.Sprintf("unknown instrument %q", m)}
			}
		}
	}

	return nil
}
