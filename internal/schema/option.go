// Package schema describes the commands AmigaGuide knows about.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// OptionType is the declared type of a command option.
type OptionType int

const (
	// OptionAny accepts any number of further options, including none.
	OptionAny OptionType = iota
	// OptionColor is one of the pen names in Colors.
	OptionColor
	// OptionFile names a file.
	OptionFile
	// OptionFileNode names a node, optionally prefixed with a file path.
	OptionFileNode
	// OptionGuide names an AmigaGuide document.
	OptionGuide
	// OptionNode names a node in the same document.
	OptionNode
	// OptionNumber is an integer.
	OptionNumber
	// OptionSome requires at least one further option.
	OptionSome
	// OptionText is free text.
	OptionText
)

var optionTypeNames = [...]string{"any", "color", "file", "filenode", "guide", "node", "number", "some", "text"}

func (o OptionType) String() string {
	if int(o) < len(optionTypeNames) {
		return optionTypeNames[o]
	}
	return "unknown"
}

// Trailing reports whether o stands for all remaining options.
func (o OptionType) Trailing() bool {
	return o == OptionAny || o == OptionSome
}

// Colors lists the pen names accepted by color options.
var Colors = []string{"back", "background", "fill", "filltext", "highlight", "shadow", "shine", "text"}

// Validate checks value against o. present is false if the option is missing.
// Files, guides and nodes are checked later during link resolution.
func (o OptionType) Validate(value string, present bool) error {
	if !present {
		if o == OptionAny {
			return nil
		}
		return fmt.Errorf("option must be specified")
	}
	switch o {
	case OptionColor:
		for _, c := range Colors {
			if strings.EqualFold(value, c) {
				return nil
			}
		}
		return fmt.Errorf("color is %q but must be one of: %s", value, strings.Join(Colors, ", "))
	case OptionNumber:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%q must be a number", value)
		}
	}
	return nil
}
