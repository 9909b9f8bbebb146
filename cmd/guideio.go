package cmd

import (
	"context"
	"path/filepath"

	"github.com/eykd/amigaguide-go/internal/config"
	"github.com/eykd/amigaguide-go/internal/guide"
	"github.com/eykd/amigaguide-go/internal/parse"
)

// GuideIO handles settings and document I/O for the guide commands.
type GuideIO interface {
	// LoadConfig reads the settings file at path. A missing file is an error
	// only if required is set.
	LoadConfig(path string, required bool) (*config.Config, error)
	// ParseGuide parses the single guide at path.
	ParseGuide(ctx context.Context, path string, cfg guide.Config) (*guide.Guide, error)
	// BuildPile parses the guide at path and every document it links to.
	BuildPile(ctx context.Context, path string, cfg guide.Config) (*guide.Pile, error)
}

// fileGuideIO implements GuideIO using OS file I/O.
// *Impl methods wrap OS calls and are excluded from coverage requirements.
type fileGuideIO struct{}

func newDefaultGuideIO() *fileGuideIO {
	return &fileGuideIO{}
}

// LoadConfig reads the settings file at path.
func (f *fileGuideIO) LoadConfig(path string, required bool) (*config.Config, error) {
	return config.Load(path, required)
}

// ParseGuide parses the guide at path.
func (f *fileGuideIO) ParseGuide(ctx context.Context, path string, cfg guide.Config) (*guide.Guide, error) {
	return f.ParseGuideImpl(ctx, path, cfg)
}

// ParseGuideImpl opens path as a file source and parses it.
func (f *fileGuideIO) ParseGuideImpl(ctx context.Context, path string, cfg guide.Config) (*guide.Guide, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return guide.Parse(ctx, parse.NewFileSource(abs), cfg)
}

// BuildPile builds the pile rooted at path.
func (f *fileGuideIO) BuildPile(ctx context.Context, path string, cfg guide.Config) (*guide.Pile, error) {
	return guide.Build(ctx, path, cfg)
}
