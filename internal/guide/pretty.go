package guide

import (
	"bufio"
	"fmt"
	"io"
)

// WritePretty writes the validated items of g as AmigaGuide markup.
// Documents that define macros are refused with ErrMacrosDefined.
func WritePretty(w io.Writer, g *Guide) error {
	if g.HasMacros() {
		return fmt.Errorf("pretty printing %s: %w", g.Source().ShortName(), ErrMacrosDefined)
	}
	bw := bufio.NewWriter(w)
	for _, it := range g.items {
		if _, err := bw.WriteString(it.Pretty()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
