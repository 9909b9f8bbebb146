package guide

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rsc.io/edit"

	"github.com/eykd/amigaguide-go/internal/parse"
	"github.com/eykd/amigaguide-go/internal/schema"
)

// maxMacroExpansions bounds the number of macro calls expanded for a single
// call in the text, including all nested calls.
const maxMacroExpansions = 1 << 16

var macroParameter = regexp.MustCompile(`\$(\d+)`)

// defineMacros registers every @macro of items. The first definition of a
// name wins; a macro may replace a standard inline command.
func (g *Guide) defineMacros(items []parse.Item) {
	for _, it := range items {
		cmd, ok := it.(*parse.CommandItem)
		if !ok || cmd.Inline || cmd.Name != "macro" {
			continue
		}
		name, ok := cmd.Option(0)
		if !ok || name == "" || cmd.OptionCount() < 2 {
			// Validation removes the incomplete definition.
			continue
		}
		name = strings.ToLower(name)
		if prev, dup := g.macros[name]; dup {
			g.cfg.Diagnostics.Add(parse.Diagnostic{
				Severity: parse.SeverityWarning,
				Code:     CodeDuplicateMacro,
				Message:  fmt.Sprintf("ignored duplicate definition of macro %q", name),
				Location: parse.LocationOf(cmd),
				SeeAlso: &parse.Diagnostic{
					Message:  "previous definition of macro",
					Location: parse.LocationAt(prev.Macro.Definition),
				},
			})
			continue
		}
		if _, std := g.cfg.Registry.Lookup(name, schema.ScopeInline); std {
			g.cfg.Diagnostics.At(cmd, parse.SeverityWarning, CodeMacroReplacesTag,
				fmt.Sprintf("replaced standard command @{%s} with macro", name))
		}
		g.macros[name] = schema.NewMacro(name, macroBody(cmd), cmd.Pos())
	}
}

// macroBody returns the replacement text of a @macro definition. A single
// quoted body loses its quotes; otherwise quoted options keep them.
func macroBody(def *parse.CommandItem) string {
	if body, ok := def.OptionItem(1).(*parse.StringItem); ok && def.OptionCount() == 2 {
		return body.Text
	}
	return def.OptionsMarkupFrom(1)
}

// resolveMacros returns items with every macro call replaced by its
// expansion, which is resolved again until no calls remain. A call whose
// expansion tree nests deeper than MaxMacroDepth or needs more than
// maxMacroExpansions calls is removed as a whole with a single diagnostic.
func (g *Guide) resolveMacros(items []parse.Item) []parse.Item {
	if len(g.macros) == 0 {
		return items
	}
	out := make([]parse.Item, 0, len(items))
	for _, it := range items {
		cmd, macro := g.macroCall(it)
		if macro == nil {
			out = append(out, it)
			continue
		}
		budget := maxMacroExpansions
		expansion, ok := g.expandCall(cmd, macro, 0, &budget)
		if !ok {
			g.cfg.Diagnostics.At(cmd, parse.SeverityError, CodeMacroTooDeep,
				fmt.Sprintf("removed call of macro %q because expansions nest deeper than %d levels or exceed %d calls",
					macro.Name, g.cfg.MaxMacroDepth, maxMacroExpansions))
			continue
		}
		out = append(out, expansion...)
	}
	return out
}

// macroCall returns it as a call of a defined macro, or a nil macro.
func (g *Guide) macroCall(it parse.Item) (*parse.CommandItem, *schema.Tag) {
	cmd, ok := it.(*parse.CommandItem)
	if !ok || !cmd.Inline {
		return nil, nil
	}
	return cmd, g.macros[cmd.Name]
}

// expandCall fully resolves call at nesting depth. It reports false as soon
// as the depth limit is reached or budget runs out.
func (g *Guide) expandCall(call *parse.CommandItem, macro *schema.Tag, depth int, budget *int) ([]parse.Item, bool) {
	if depth >= g.cfg.MaxMacroDepth || *budget <= 0 {
		return nil, false
	}
	*budget--
	var out []parse.Item
	for _, it := range g.expandMacro(call, macro) {
		cmd, inner := g.macroCall(it)
		if inner == nil {
			out = append(out, it)
			continue
		}
		expansion, ok := g.expandCall(cmd, inner, depth+1, budget)
		if !ok {
			return nil, false
		}
		out = append(out, expansion...)
	}
	return out, true
}

// expandMacro substitutes the options of call for the $N parameters of
// macro and reads the result as one line. Missing parameters become empty.
func (g *Guide) expandMacro(call *parse.CommandItem, macro *schema.Tag) []parse.Item {
	body := macro.Macro.Body
	buf := edit.NewBuffer([]byte(body))
	for _, m := range macroParameter.FindAllStringSubmatchIndex(body, -1) {
		value := ""
		if n, err := strconv.Atoi(body[m[2]:m[3]]); err == nil && n > 0 {
			value, _ = call.Option(n - 1)
		}
		buf.Replace(m[0], m[1], value)
	}
	text := string(buf.Bytes())

	src := parse.NewStringSource(g.source.ShortName()+"@macro-"+macro.Name, text)
	items := parse.AppendLine(nil, src, 0, text)
	if n := len(items); n > 0 && items[n-1].Kind() == parse.KindNewLine {
		items = items[:n-1]
	}
	return items
}
