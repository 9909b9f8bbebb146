package guide_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eykd/amigaguide-go/internal/guide"
)

func TestAmigaPaths_Resolve(t *testing.T) {
	base := filepath.FromSlash("/work/docs")
	help := filepath.FromSlash("/mnt/help")
	helpApp := filepath.FromSlash("/mnt/app-help")
	paths := guide.NewAmigaPaths([]guide.PathMapping{
		{Prefix: "Help:", Folder: help},
		{Prefix: "Help:App/", Folder: helpApp},
		{Prefix: "HELP:", Folder: filepath.FromSlash("/mnt/never")},
		{Prefix: "Env:"},
	})
	tmp := os.TempDir()

	tests := []struct {
		name          string
		amiga         string
		wantLocal     string
		wantUndefined string
	}{
		{"relative file", "manual.guide", filepath.Join(base, "manual.guide"), ""},
		{"relative folder", "sub/manual.guide", filepath.Join(base, "sub", "manual.guide"), ""},
		{"leading slash is parent", "/other.guide", filepath.FromSlash("/work/other.guide"), ""},
		{"empty segment is parent", "sub//x.guide", filepath.Join(base, "x.guide"), ""},
		{"trailing slash", "sub/", filepath.Join(base, "sub"), ""},
		{"mapped device", "Help:manual.guide", filepath.Join(help, "manual.guide"), ""},
		{"device ignores case", "help:manual.guide", filepath.Join(help, "manual.guide"), ""},
		{"longest prefix wins", "Help:App/intro.guide", filepath.Join(helpApp, "intro.guide"), ""},
		{"known undefined device", "Env:prefs", filepath.Join(tmp, "prefs"), "Env:"},
		{"unknown device", "Work:x/y.guide", filepath.Join(tmp, "x", "y.guide"), "Work:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, undefined := paths.Resolve(tt.amiga, base)
			if local != tt.wantLocal {
				t.Errorf("local = %q, want %q", local, tt.wantLocal)
			}
			if undefined != tt.wantUndefined {
				t.Errorf("undefined = %q, want %q", undefined, tt.wantUndefined)
			}
		})
	}
}

func TestAmigaPaths_MappingsIsACopy(t *testing.T) {
	in := []guide.PathMapping{{Prefix: "Help:", Folder: "/a"}}
	paths := guide.NewAmigaPaths(in)
	in[0].Folder = "/b"
	got := paths.Mappings()
	got[0].Folder = "/c"
	if paths.Mappings()[0].Folder != "/a" {
		t.Errorf("Mappings()[0].Folder = %q, want %q", paths.Mappings()[0].Folder, "/a")
	}
}
