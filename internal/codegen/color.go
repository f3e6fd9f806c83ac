package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/scenegen/internal/ir"
)

// DefaultColor is the color expression used when no representation is set.
const DefaultColor = "WHITE"

// ResolveColor renders c as a renderer color expression, picking the first
// set representation in the order name, hex, rgb. Empty strings count as
// unset. A hex value without a leading # gains one.
func ResolveColor(c ir.Color) string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	if c.Hex != nil && *c.Hex != "" {
		return strconv.Quote("#" + strings.TrimPrefix(*c.Hex, "#"))
	}
	if len(c.RGB) == 3 {
		return fmt.Sprintf("rgb_to_color([%s, %s, %s])",
			formatFloat(c.RGB[0]), formatFloat(c.RGB[1]), formatFloat(c.RGB[2]))
	}
	return DefaultColor
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
