package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/eykd/amigaguide-go/internal/config"
	"github.com/eykd/amigaguide-go/internal/guide"
)

// mockGuideIO reads guides from disk but serves settings from memory.
type mockGuideIO struct {
	fileGuideIO
	cfg      *config.Config
	cfgErr   error
	buildErr error

	loadedPath string
	required   bool
}

func (m *mockGuideIO) LoadConfig(path string, required bool) (*config.Config, error) {
	m.loadedPath, m.required = path, required
	if m.cfgErr != nil {
		return nil, m.cfgErr
	}
	if m.cfg != nil {
		return m.cfg, nil
	}
	return &config.Config{}, nil
}

func (m *mockGuideIO) BuildPile(ctx context.Context, path string, cfg guide.Config) (*guide.Pile, error) {
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	return m.fileGuideIO.BuildPile(ctx, path, cfg)
}

const cleanGuide = "@database demo\n" +
	"@node main \"Main Menu\"\n" +
	"Welcome. See @{\"Part two\" link part2}.\n" +
	"@endnode\n" +
	"@node part2\n" +
	"@font helvetica.font 13\n" +
	"The end.\n" +
	"@endnode\n"

// writeFile writes text to name in dir and returns the path.
func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// run executes c with args and returns stdout, stderr and the error.
func run(c *cobra.Command, args ...string) (string, string, error) {
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	c.SetOut(out)
	c.SetErr(errOut)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), errOut.String(), err
}

func TestValidateCmd_CleanGuide(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", cleanGuide)
	io := &mockGuideIO{}

	out, errOut, err := run(NewValidateCmd(io), path)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, errOut)
	}
	if want := "checked 1 guide(s): 0 error(s), 0 warning(s), 0 info\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if errOut != "" {
		t.Errorf("stderr = %q, want empty", errOut)
	}
	if io.loadedPath != config.DefaultFile || io.required {
		t.Errorf("LoadConfig(%q, %v), want optional %q", io.loadedPath, io.required, config.DefaultFile)
	}
}

func TestValidateCmd_ReportsErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.guide",
		"@database demo\n@node main\n@{\"Gone\" link missing.guide/main}\n@{hugo}\n")

	out, errOut, err := run(NewValidateCmd(&mockGuideIO{}), path)
	if err == nil {
		t.Fatal("expected error for a guide with error diagnostics")
	}
	for _, want := range []string{"(AGE002)", "(AGE008)", "(AGW005)"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr does not contain %s:\n%s", want, errOut)
		}
	}
	if !strings.HasPrefix(out, "checked 1 guide(s): 2 error(s), 1 warning(s)") {
		t.Errorf("stdout = %q", out)
	}
}

func TestValidateCmd_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "other.guide", "@database other\n@node main\n@endnode\n")
	path := writeFile(t, dir, "demo.guide",
		"@database demo\n@node main\n@{\"Other\" link other.guide/nope}\n@{\"Dev\" link Work:x.guide/main}\n@endnode\n")

	out, _, err := run(NewValidateCmd(&mockGuideIO{}), "--json", path)
	if err == nil {
		t.Fatal("expected error for missing target node")
	}
	var got validateOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Version != "1" || len(got.Guides) != 2 {
		t.Errorf("version=%q guides=%v, want version 1 and two guides", got.Version, got.Guides)
	}
	if len(got.UndefinedPrefixes) != 1 || got.UndefinedPrefixes[0] != "Work:" {
		t.Errorf("UndefinedPrefixes = %v, want [Work:]", got.UndefinedPrefixes)
	}
	var codes []string
	for _, d := range got.Diagnostics {
		codes = append(codes, d.Code)
	}
	if !containsString(codes, guide.CodeMissingTargetNode) {
		t.Errorf("diagnostic codes = %v, want %s", codes, guide.CodeMissingTargetNode)
	}
}

func TestValidateCmd_NoFollow(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.guide",
		"@database demo\n@node main\n@{\"Gone\" link missing.guide/main}\n@endnode\n")

	out, _, err := run(NewValidateCmd(&mockGuideIO{}), "--no-follow", path)
	if err != nil {
		t.Fatalf("unexpected error without following links: %v", err)
	}
	if !strings.HasPrefix(out, "checked 1 guide(s): 0 error(s)") {
		t.Errorf("stdout = %q", out)
	}
}

func TestValidateCmd_IOErrors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		io := &mockGuideIO{cfgErr: errors.New("bad yaml")}
		_, _, err := run(NewValidateCmd(io), "demo.guide")
		if err == nil || !strings.Contains(err.Error(), "bad yaml") {
			t.Errorf("error = %v, want config error", err)
		}
	})
	t.Run("build", func(t *testing.T) {
		io := &mockGuideIO{buildErr: os.ErrPermission}
		_, _, err := run(NewValidateCmd(io), "demo.guide")
		if !errors.Is(err, os.ErrPermission) {
			t.Errorf("error = %v, want wrapped ErrPermission", err)
		}
	})
	t.Run("missing guide", func(t *testing.T) {
		_, _, err := run(NewValidateCmd(&mockGuideIO{}), filepath.Join(t.TempDir(), "nope.guide"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want wrapped ErrNotExist", err)
		}
	})
}

func TestRootCmd_PathFlagMapsDevice(t *testing.T) {
	help := t.TempDir()
	writeFile(t, help, "manual.guide", "@database manual\n@node main\n@endnode\n")
	path := writeFile(t, t.TempDir(), "demo.guide",
		"@database demo\n@node main\n@{\"Manual\" link Help:manual.guide/main}\n@endnode\n")

	root := newRootCmdWithIO(&mockGuideIO{})
	out, errOut, err := run(root, "validate", "--path", "Help:="+help, path)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, errOut)
	}
	if !strings.HasPrefix(out, "checked 2 guide(s)") {
		t.Errorf("stdout = %q, want two guides checked", out)
	}
}

func TestRootCmd_ConfigSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.guide",
		"@database demo\n@macro loop \"x@{loop}\"\n@node main\n@{loop}\n@endnode\n")
	io := &mockGuideIO{cfg: &config.Config{MaxMacroDepth: 2}}

	root := newRootCmdWithIO(io)
	_, errOut, err := run(root, "validate", "--config", "agt.yml", path)
	if err == nil {
		t.Fatal("expected error for runaway macro")
	}
	if io.loadedPath != "agt.yml" || !io.required {
		t.Errorf("LoadConfig(%q, %v), want required agt.yml", io.loadedPath, io.required)
	}
	if !strings.Contains(errOut, "nest deeper than 2 levels") {
		t.Errorf("stderr does not mention the configured depth:\n%s", errOut)
	}
}

func TestRootCmd_BadFlags(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", cleanGuide)
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"path without equals", []string{"validate", "--path", "Help:", path}, config.ErrInvalidMapping},
		{"path without colon", []string{"validate", "--path", "Help=/x", path}, config.ErrInvalidMapping},
		{"log level", []string{"validate", "--log-level", "loud", path}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(newRootCmdWithIO(&mockGuideIO{}), tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestRootCmd_DebugLogging(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", cleanGuide)
	_, errOut, err := run(newRootCmdWithIO(&mockGuideIO{}), "validate", "--debug", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"loaded settings", "parsing guide", "parsed guide"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("debug log does not contain %q:\n%s", want, errOut)
		}
	}
}

func TestPrettyCmd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide",
		"@database demo\n@node main\nHello @{hugo}World\n@node next\n@endnode\n")

	out, errOut, err := run(NewPrettyCmd(&mockGuideIO{}), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "@database demo\n@node main\nHello World\n@endnode\n@node next\n@endnode\n"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
	if !strings.Contains(errOut, "(AGW004)") || !strings.Contains(errOut, "(AGE002)") {
		t.Errorf("stderr = %q, want repair diagnostics", errOut)
	}
}

func TestPrettyCmd_KeepsLegacyCharset(t *testing.T) {
	// "Grüße" and "©" as single bytes of the Amiga character set.
	text := "@database demo\n@node main \"Gr\xfc\xdfe\"\n\xa9 2001 Hugo\n@endnode\n"
	path := writeFile(t, t.TempDir(), "latin.guide", text)

	out, errOut, err := run(NewPrettyCmd(&mockGuideIO{}), path)
	if err != nil {
		t.Fatalf("unexpected error: %v\nstderr: %s", err, errOut)
	}
	if out != text {
		t.Errorf("stdout = % x, want % x", out, text)
	}
}

func TestPrettyCmd_RefusesMacros(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", "@database demo\n@macro hi \"hi\"\n")
	_, _, err := run(NewPrettyCmd(&mockGuideIO{}), path)
	if !errors.Is(err, guide.ErrMacrosDefined) {
		t.Errorf("error = %v, want ErrMacrosDefined", err)
	}
}

func TestNodesCmd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", cleanGuide)
	out, _, err := run(NewNodesCmd(&mockGuideIO{}), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got struct {
		Database string `json:"database"`
		Nodes    []struct {
			Name         string            `json:"name"`
			Title        string            `json:"title"`
			Line         int               `json:"line"`
			Wrap         string            `json:"wrap"`
			Proportional bool              `json:"proportional"`
			Font         *guide.Font       `json:"font"`
			Relations    map[string]string `json:"relations"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got.Database != "demo" || len(got.Nodes) != 2 {
		t.Fatalf("database=%q nodes=%d, want demo and 2 nodes", got.Database, len(got.Nodes))
	}
	main, part2 := got.Nodes[0], got.Nodes[1]
	if main.Name != "main" || main.Title != "Main Menu" || main.Line != 2 || main.Wrap != "none" {
		t.Errorf("main = %+v", main)
	}
	if main.Relations["next"] != "part2" || part2.Relations["previous"] != "main" {
		t.Errorf("relations = %v and %v, want next part2 and previous main", main.Relations, part2.Relations)
	}
	if !part2.Proportional || part2.Font == nil || part2.Font.Size != 13 {
		t.Errorf("part2 = %+v, want proportional helvetica 13", part2)
	}
}

func TestLinksCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "demo.guide",
		"@database demo\n@node main\n@{\"Self\" link main 3}\n@{\"Gone\" link gone.guide/main}\n@{\"Run\" rx x}\n@endnode\n")

	tests := []struct {
		name   string
		args   []string
		labels []string
	}{
		{"all", []string{path}, []string{"Self", "Gone", "Run"}},
		{"broken only", []string{"--broken", path}, []string{"Gone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(NewLinksCmd(&mockGuideIO{}), tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []struct {
				Label      string `json:"label"`
				Type       string `json:"type"`
				State      string `json:"state"`
				Line       int    `json:"line"`
				TargetLine *int   `json:"targetLine"`
			}
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out)
			}
			var labels []string
			for _, l := range got {
				labels = append(labels, l.Label)
			}
			if strings.Join(labels, ",") != strings.Join(tt.labels, ",") {
				t.Errorf("labels = %v, want %v", labels, tt.labels)
			}
			if tt.name == "all" {
				if got[0].State != "valid" || got[0].TargetLine == nil || *got[0].TargetLine != 3 || got[0].Line != 3 {
					t.Errorf("Self = %+v", got[0])
				}
				if got[2].Type != "rx" || got[2].State != "unsupported" {
					t.Errorf("Run = %+v", got[2])
				}
			}
		})
	}
}

func TestTextCmd(t *testing.T) {
	path := writeFile(t, t.TempDir(), "demo.guide", cleanGuide)

	out, _, err := run(NewTextCmd(&mockGuideIO{}), path, "PART2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "part2\n=====\n\nThe end.\n\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	out, _, err = run(NewTextCmd(&mockGuideIO{}), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Main Menu\n=========\n\nWelcome. See Part two [demo.guide/part2].\n\n") {
		t.Errorf("stdout = %q", out)
	}

	if _, _, err := run(NewTextCmd(&mockGuideIO{}), path, "nope"); err == nil {
		t.Error("expected error for unknown node")
	}
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
