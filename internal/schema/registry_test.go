package schema_test

import (
	"testing"

	"github.com/eykd/amigaguide-go/internal/schema"
)

func TestRegistry_Lookup(t *testing.T) {
	r := schema.NewRegistry()
	tests := []struct {
		name      string
		cmd       string
		scope     schema.Scope
		wantOK    bool
		wantScope schema.Scope
	}{
		{"global command", "database", schema.ScopeGlobal, true, schema.ScopeGlobal},
		{"node falls back to global", "author", schema.ScopeNode, true, schema.ScopeGlobal},
		{"node specific wins", "font", schema.ScopeNode, true, schema.ScopeNode},
		{"node only command at global", "title", schema.ScopeGlobal, false, 0},
		{"inline", "b", schema.ScopeInline, true, schema.ScopeInline},
		{"inline does not fall back", "database", schema.ScopeInline, false, 0},
		{"link", "link", schema.ScopeLink, true, schema.ScopeLink},
		{"unknown", "hugo", schema.ScopeGlobal, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := r.Lookup(tt.cmd, tt.scope)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q, %v) ok = %v, want %v", tt.cmd, tt.scope, ok, tt.wantOK)
			}
			if ok && tag.Scope != tt.wantScope {
				t.Errorf("Lookup(%q, %v).Scope = %v, want %v", tt.cmd, tt.scope, tag.Scope, tt.wantScope)
			}
		})
	}
}

func TestRegistry_Flags(t *testing.T) {
	r := schema.NewRegistry()
	dnode, _ := r.Lookup("dnode", schema.ScopeGlobal)
	if !dnode.Obsolete {
		t.Error("@dnode should be obsolete")
	}
	height, _ := r.Lookup("height", schema.ScopeGlobal)
	if !height.Unused || !height.Unique {
		t.Error("@height should be unique and unused")
	}
	node, _ := r.Lookup("node", schema.ScopeGlobal)
	if node.Unique || !node.AcceptsTrailing() {
		t.Error("@node should not be unique and accept trailing options")
	}
	font, _ := r.Lookup("font", schema.ScopeGlobal)
	if font.AcceptsTrailing() {
		t.Error("@font should not accept trailing options")
	}
}

func TestRegistry_ValidLinkTypes(t *testing.T) {
	r := schema.NewRegistry()
	want := `"alink", "beep", "close", "guide", "link", "quit", "rx", "rxs", "system"`
	if got := r.ValidLinkTypes(); got != want {
		t.Errorf("ValidLinkTypes() = %q, want %q", got, want)
	}
	if n := len(r.LinkTypes()); n != 9 {
		t.Errorf("len(LinkTypes()) = %d, want 9", n)
	}
}

func TestRegistry_InlineTagsNeverUnique(t *testing.T) {
	r := schema.NewRegistry()
	for _, name := range []string{"b", "fg", "bg", "settabs", "lindent"} {
		tag, ok := r.Lookup(name, schema.ScopeInline)
		if !ok {
			t.Fatalf("missing inline tag %q", name)
		}
		if tag.Unique {
			t.Errorf("inline tag %q is unique", name)
		}
	}
}

func TestOptionType_Validate(t *testing.T) {
	tests := []struct {
		name    string
		typ     schema.OptionType
		value   string
		present bool
		wantErr string
	}{
		{"any missing", schema.OptionAny, "", false, ""},
		{"some missing", schema.OptionSome, "", false, "option must be specified"},
		{"text missing", schema.OptionText, "", false, "option must be specified"},
		{"text", schema.OptionText, "hugo", true, ""},
		{"number", schema.OptionNumber, "17", true, ""},
		{"negative number", schema.OptionNumber, "-3", true, ""},
		{"broken number", schema.OptionNumber, "x", true, `"x" must be a number`},
		{"color", schema.OptionColor, "Shine", true, ""},
		{"broken color", schema.OptionColor, "x", true,
			`color is "x" but must be one of: back, background, fill, filltext, highlight, shadow, shine, text`},
		{"file is lexically free", schema.OptionFile, "does/not/exist", true, ""},
		{"node is lexically free", schema.OptionNode, "", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.typ.Validate(tt.value, tt.present)
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.wantErr {
				t.Errorf("Validate(%q, %v) = %q, want %q", tt.value, tt.present, got, tt.wantErr)
			}
		})
	}
}
