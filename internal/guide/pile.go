package guide

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// Pile is a root guide together with every document reachable through its
// links. It is built once by Build and not safe for concurrent use.
type Pile struct {
	cfg        Config
	guides     []*Guide
	byPath     map[string]*Guide
	links      []*Link
	linkFor    map[*parse.CommandItem]*Link
	scheduled  []*Link
	failed     map[string]error
	otherFiles map[string]bool
}

// Build parses the guide at rootPath and follows its links breadth first.
// Problems in linked documents are reported to cfg.Diagnostics and leave the
// affected links broken; only a root guide that cannot be read is an error.
func Build(ctx context.Context, rootPath string, cfg Config) (*Pile, error) {
	if cfg.Logger == nil {
		cfg.Logger = loggerFrom(ctx)
	}
	p := &Pile{
		cfg:        cfg.withDefaults(),
		byPath:     make(map[string]*Guide),
		linkFor:    make(map[*parse.CommandItem]*Link),
		failed:     make(map[string]error),
		otherFiles: make(map[string]bool),
	}

	root, err := p.parse(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	queue := append([]*Link(nil), root.Links()...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		link := queue[0]
		queue = queue[1:]
		p.links = append(p.links, link)
		p.linkFor[link.command] = link

		if !link.IsData() {
			link.setState(StateUnsupported)
			continue
		}
		if _, cached := p.byPath[link.file]; cached {
			p.schedule(link)
			continue
		}
		if g := p.follow(ctx, link); g != nil {
			queue = append(queue, g.Links()...)
		}
	}

	p.validateLinks()
	p.completeRelations()
	for _, l := range p.links {
		if l.state == StateUnchecked {
			panic(fmt.Sprintf("guide: link %s is still unchecked", l))
		}
	}
	return p, nil
}

func (p *Pile) parse(ctx context.Context, path string) (*Guide, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	g, err := Parse(ctx, parse.NewFileSource(abs), p.cfg)
	if err != nil {
		return nil, err
	}
	p.byPath[g.Path()] = g
	p.guides = append(p.guides, g)
	return g, nil
}

func (p *Pile) schedule(link *Link) {
	link.setState(StateValidGuideUncheckedNode)
	p.scheduled = append(p.scheduled, link)
}

// follow reads the file link points to. It returns the new guide, or nil if
// the file is missing, unreadable or not a guide.
func (p *Pile) follow(ctx context.Context, link *Link) *Guide {
	file := link.file
	p.cfg.Logger.Debugw("following link", "target", link.target, "file", file)

	if p.otherFiles[file] {
		link.setState(StateValidOtherFile)
		return nil
	}
	if err, failed := p.failed[file]; failed {
		p.reportBroken(link, err)
		return nil
	}
	isGuide, err := parse.IsGuideFile(file)
	if err != nil {
		p.failed[file] = err
		p.reportBroken(link, err)
		return nil
	}
	if !isGuide {
		p.otherFiles[file] = true
		link.setState(StateValidOtherFile)
		return nil
	}
	g, err := p.parse(ctx, file)
	if err != nil {
		p.failed[file] = err
		p.reportBroken(link, err)
		return nil
	}
	p.schedule(link)
	return g
}

func (p *Pile) reportBroken(link *Link, err error) {
	diags := p.cfg.Diagnostics
	if errors.Is(err, fs.ErrNotExist) {
		diags.At(link.command, parse.SeverityError, CodeLinkedFileMissing,
			fmt.Sprintf("ignored link to file that does not exist: %q", link.file))
	} else {
		diags.Add(parse.Diagnostic{
			Severity: parse.SeverityError,
			Code:     CodeLinkedFileUnreadable,
			Message:  fmt.Sprintf("cannot read linked file for %q", link.target),
			Location: parse.LocationOf(link.command),
			SeeAlso:  &parse.Diagnostic{Message: fmt.Sprintf("related input/output error: %v", err)},
		})
	}
	link.setState(StateBroken)
}

// validateLinks looks up the target node of every link to a parsed guide.
// Links without node point to the first node of their document.
func (p *Pile) validateLinks() {
	for _, link := range p.scheduled {
		g := p.byPath[link.file]
		if link.node == "" {
			if first := g.FirstNode(); first != nil {
				link.node = first.Name
			}
		}
		if _, ok := g.Node(link.node); ok && link.node != "" {
			link.setState(StateValid)
			continue
		}
		msg := fmt.Sprintf("cannot find node %q in %q", link.node, g.Source().ShortName())
		if link.node == "" {
			msg = fmt.Sprintf("cannot find any node in %q", g.Source().ShortName())
		}
		p.cfg.Diagnostics.At(link.command, parse.SeverityError, CodeMissingTargetNode, msg)
		link.setState(StateValidGuideBrokenNode)
	}
}

// completeRelations fills the relations nodes did not declare: next and
// previous point to the adjacent nodes, help, index and contents to the
// document defaults.
func (p *Pile) completeRelations() {
	for _, g := range p.guides {
		help, _ := g.info.Relation(parse.RelationHelp)
		index, _ := g.info.Relation(parse.RelationIndex)
		contents, _ := g.info.Relation(parse.RelationContents)

		var previous *Link
		for i, node := range g.nodes {
			var next *Link
			if i+1 < len(g.nodes) {
				next = newNodeLink(g, g.nodes[i+1], parse.RelationNext)
			}
			node.setEmptyRelation(parse.RelationHelp, help)
			node.setEmptyRelation(parse.RelationIndex, index)
			node.setEmptyRelation(parse.RelationNext, next)
			node.setEmptyRelation(parse.RelationPrevious, previous)
			node.setEmptyRelation(parse.RelationContents, contents)
			previous = newNodeLink(g, node, parse.RelationPrevious)
		}
	}
}

// Root returns the guide the pile was built from.
func (p *Pile) Root() *Guide { return p.guides[0] }

// Guides returns the parsed guides in the order they were reached.
func (p *Pile) Guides() []*Guide { return p.guides }

// Guide returns the guide parsed from the local path.
func (p *Pile) Guide(path string) (*Guide, bool) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	g, ok := p.byPath[path]
	return g, ok
}

// Links returns every link of every guide in the order they were followed.
func (p *Pile) Links() []*Link { return p.links }

// LinkFor returns the link created from cmd.
func (p *Pile) LinkFor(cmd *parse.CommandItem) (*Link, bool) {
	l, ok := p.linkFor[cmd]
	return l, ok
}

// Diagnostics returns the sink the pile reported to.
func (p *Pile) Diagnostics() *parse.Diagnostics { return p.cfg.Diagnostics }

// UndefinedPrefixes returns the Amiga devices used by any guide without a
// local folder, in order of first use.
func (p *Pile) UndefinedPrefixes() []string {
	var out []string
	for _, g := range p.guides {
		for _, prefix := range g.undefined {
			out = appendUnique(out, prefix)
		}
	}
	return out
}
