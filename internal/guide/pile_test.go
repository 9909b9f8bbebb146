package guide_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eykd/amigaguide-go/internal/guide"
	"github.com/eykd/amigaguide-go/internal/parse"
)

// writeGuide writes text to a file with a unique name in dir and returns the
// base name.
func writeGuide(t *testing.T, dir, suffix, text string) string {
	t.Helper()
	name := uuid.NewString() + suffix
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o600))
	return name
}

func linksByLabel(p *guide.Pile) map[string]*guide.Link {
	out := make(map[string]*guide.Link)
	for _, l := range p.Links() {
		out[l.Label()] = l
	}
	return out
}

func TestBuild_ResolvesLinksAcrossDocuments(t *testing.T) {
	dir := t.TempDir()
	rootName := uuid.NewString() + ".guide"
	manual := writeGuide(t, dir, ".guide",
		"@database manual\n"+
			"@node overview\n"+
			fmt.Sprintf("@{\"Back\" link %s/main}\n", rootName)+
			"@endnode\n"+
			"@node extra\n@endnode\n")
	readme := writeGuide(t, dir, ".txt", "just text\n")
	missing := uuid.NewString() + ".guide"
	root := "@database root\n" +
		"@node main\n" +
		fmt.Sprintf("@{\"Overview\" link %s/overview}\n", manual) +
		fmt.Sprintf("@{\"Missing\" link %s/missing}\n", manual) +
		fmt.Sprintf("@{\"Whole\" guide %s}\n", manual) +
		fmt.Sprintf("@{\"Gone\" link %s/main}\n", missing) +
		fmt.Sprintf("@{\"Text\" link %s/main}\n", readme) +
		"@{\"Script\" rx \"foo\"}\n" +
		"@{\"Self\" link second}\n" +
		"@endnode\n" +
		"@node second\n@endnode\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, rootName), []byte(root), 0o600))

	diags := parse.NewDiagnostics()
	p, err := guide.Build(context.Background(), filepath.Join(dir, rootName), guide.Config{Diagnostics: diags})
	require.NoError(t, err)
	require.Len(t, p.Guides(), 2)
	require.Equal(t, "root", p.Root().Info().Name)

	links := linksByLabel(p)
	tests := []struct {
		label string
		state guide.LinkState
		node  string
	}{
		{"Overview", guide.StateValid, "overview"},
		{"Missing", guide.StateValidGuideBrokenNode, "missing"},
		{"Whole", guide.StateValid, "overview"},
		{"Gone", guide.StateBroken, "main"},
		{"Text", guide.StateValidOtherFile, "main"},
		{"Script", guide.StateUnsupported, ""},
		{"Self", guide.StateValid, "second"},
		{"Back", guide.StateValid, "main"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			l, ok := links[tt.label]
			require.True(t, ok, "no link labeled %q", tt.label)
			require.Equal(t, tt.state, l.State())
			require.Equal(t, tt.node, l.TargetNode())
			require.True(t, l.State().Terminal())
		})
	}

	var got []string
	for _, d := range diags.All() {
		got = append(got, d.Code)
	}
	require.ElementsMatch(t, []string{guide.CodeLinkedFileMissing, guide.CodeMissingTargetNode}, got)
	for _, d := range diags.All() {
		if d.Code == guide.CodeMissingTargetNode {
			require.Equal(t, fmt.Sprintf("cannot find node %q in %q", "missing", manual), d.Message)
		}
	}

	g, ok := p.Guide(filepath.Join(dir, manual))
	require.True(t, ok)
	require.Equal(t, "manual", g.Info().Name)

	cmd := links["Overview"].Command()
	l, ok := p.LinkFor(cmd)
	require.True(t, ok)
	require.Same(t, links["Overview"], l)
}

func TestBuild_CompletesRelations(t *testing.T) {
	dir := t.TempDir()
	name := writeGuide(t, dir, ".guide",
		"@database three\n"+
			"@index c\n"+
			"@node a\n@endnode\n"+
			"@node b\n@help a\n@endnode\n"+
			"@node c\n@next a\n@endnode\n")

	p, err := guide.Build(context.Background(), filepath.Join(dir, name), guide.Config{})
	require.NoError(t, err)
	require.Zero(t, p.Diagnostics().Len(), "%v", p.Diagnostics().All())

	g := p.Root()
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	c, _ := g.Node("c")

	target := func(n *guide.NodeInfo, r parse.Relation) string {
		t.Helper()
		l, ok := n.Relation(r)
		if !ok {
			return ""
		}
		require.Equal(t, guide.StateValid, l.State(), "%s %s", n.Name, r)
		return l.TargetNode()
	}
	require.Equal(t, "b", target(a, parse.RelationNext))
	require.Equal(t, "", target(a, parse.RelationPrevious))
	require.Equal(t, "c", target(a, parse.RelationIndex))
	require.Equal(t, "", target(a, parse.RelationHelp))

	require.Equal(t, "a", target(b, parse.RelationPrevious))
	require.Equal(t, "c", target(b, parse.RelationNext))
	require.Equal(t, "a", target(b, parse.RelationHelp))

	require.Equal(t, "b", target(c, parse.RelationPrevious))
	require.Equal(t, "a", target(c, parse.RelationNext), "declared relations are kept")
	require.Equal(t, "", target(c, parse.RelationContents))
}

func TestBuild_ReportsUndefinedPrefixes(t *testing.T) {
	dir := t.TempDir()
	name := writeGuide(t, dir, ".guide",
		"@database x\n@node main\n"+
			fmt.Sprintf("@{\"Dev\" link Work:%s.guide/main}\n", uuid.NewString())+
			fmt.Sprintf("@{\"Help\" link Help:%s.guide/main}\n", uuid.NewString())+
			"@endnode\n")
	help := t.TempDir()
	cfg := guide.Config{Paths: guide.NewAmigaPaths([]guide.PathMapping{{Prefix: "Help:", Folder: help}})}

	p, err := guide.Build(context.Background(), filepath.Join(dir, name), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"Work:"}, p.UndefinedPrefixes())

	links := linksByLabel(p)
	require.Equal(t, guide.StateBroken, links["Dev"].State())
	require.Equal(t, help, filepath.Dir(links["Help"].TargetFile()))
}

func TestBuild_UnreadableLinkedFile(t *testing.T) {
	dir := t.TempDir()
	sub := uuid.NewString()
	require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o700))
	name := writeGuide(t, dir, ".guide",
		"@database x\n@node main\n"+
			fmt.Sprintf("@{\"Folder\" link %s/main}\n", sub)+
			fmt.Sprintf("@{\"Again\" link %s/other}\n", sub)+
			"@endnode\n")

	diags := parse.NewDiagnostics()
	p, err := guide.Build(context.Background(), filepath.Join(dir, name), guide.Config{Diagnostics: diags})
	require.NoError(t, err)
	links := linksByLabel(p)
	require.Equal(t, guide.StateBroken, links["Folder"].State())
	require.Equal(t, guide.StateBroken, links["Again"].State())

	all := diags.All()
	require.Len(t, all, 2)
	for _, d := range all {
		require.Equal(t, guide.CodeLinkedFileUnreadable, d.Code)
		require.NotNil(t, d.SeeAlso)
	}
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := guide.Build(context.Background(), filepath.Join(t.TempDir(), "nope.guide"), guide.Config{})
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist), "error %v does not wrap fs.ErrNotExist", err)
}

func TestBuild_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	name := writeGuide(t, dir, ".guide", "@database x\n@node a\n@{\"a\" link a}\n@endnode\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := guide.Build(ctx, filepath.Join(dir, name), guide.Config{})
	require.ErrorIs(t, err, context.Canceled)
}
