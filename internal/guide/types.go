// Package guide validates AmigaGuide documents and resolves the links between them.
package guide

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/eykd/amigaguide-go/internal/parse"
	"github.com/eykd/amigaguide-go/internal/schema"
)

// DefaultMaxMacroDepth bounds nested macro expansion when Config leaves it unset.
const DefaultMaxMacroDepth = 64

// ErrMacrosDefined is returned when pretty printing a document that defines
// macros, because expanded calls cannot be turned back into macro calls.
var ErrMacrosDefined = errors.New("document defines macros")

// Config carries the collaborators of a build. Nil fields get defaults.
type Config struct {
	Registry      *schema.Registry
	Diagnostics   *parse.Diagnostics
	Paths         *AmigaPaths
	Logger        *zap.SugaredLogger
	MaxMacroDepth int
}

func (c Config) withDefaults() Config {
	if c.Registry == nil {
		c.Registry = schema.NewRegistry()
	}
	if c.Diagnostics == nil {
		c.Diagnostics = parse.NewDiagnostics()
	}
	if c.Paths == nil {
		c.Paths = NewAmigaPaths(nil)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop().Sugar()
	}
	if c.MaxMacroDepth <= 0 {
		c.MaxMacroDepth = DefaultMaxMacroDepth
	}
	return c
}

type loggerKey struct{}

// WithLogger returns a context carrying logger. Build uses it when the
// Config has no logger of its own.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return l
	}
	return nil
}

// Wrap is the line wrapping mode of a document or node.
type Wrap int

const (
	// WrapDefault inherits the mode of the enclosing document.
	WrapDefault Wrap = iota
	WrapNone
	WrapSmart
	WrapWord
)

var wrapNames = [...]string{"default", "none", "smart", "word"}

func (w Wrap) String() string {
	if int(w) < len(wrapNames) {
		return wrapNames[w]
	}
	return "unknown"
}

// MarshalText encodes w by name.
func (w Wrap) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// Document errors: content was dropped.
const (
	// CodeMissingDatabase means the document does not start with @database.
	CodeMissingDatabase = "AGE001"
	// CodeUnknownCommand means a command is not known in its scope.
	CodeUnknownCommand = "AGE002"
	// CodeMacroTooDeep means a macro call was nested beyond the expansion limit.
	CodeMacroTooDeep = "AGE003"
	// CodeDuplicateUnique means a unique command occurred twice.
	CodeDuplicateUnique = "AGE004"
	// CodeBrokenOption means a command had an invalid option.
	CodeBrokenOption = "AGE005"
	// CodeBrokenFontSize means @font had a size that is not positive.
	CodeBrokenFontSize = "AGE006"
	// CodeBrokenLink means a link was replaced by its label.
	CodeBrokenLink = "AGE007"
	// CodeLinkedFileMissing means a link points to a file that does not exist.
	CodeLinkedFileMissing = "AGE008"
	// CodeLinkedFileUnreadable means a linked file could not be read.
	CodeLinkedFileUnreadable = "AGE009"
	// CodeMissingTargetNode means a link points to a node that does not exist.
	CodeMissingTargetNode = "AGE010"
)

// Document warnings: content was repaired.
const (
	// CodeMissingDatabaseName means @database had no name and got one.
	CodeMissingDatabaseName = "AGW001"
	// CodeDuplicateMacro means a macro was defined twice; the first wins.
	CodeDuplicateMacro = "AGW002"
	// CodeMacroReplacesTag means a macro redefines a standard command.
	CodeMacroReplacesTag = "AGW003"
	// CodeMissingEndnode means an @endnode was added before the next @node.
	CodeMissingEndnode = "AGW004"
	// CodeMissingEndnodeAtEnd means an @endnode was added at the end of the document.
	CodeMissingEndnodeAtEnd = "AGW005"
	// CodeUnnamedNode means a node without name got a generated one.
	CodeUnnamedNode = "AGW006"
	// CodeDuplicateNodeName means a node was renamed because its name was taken.
	CodeDuplicateNodeName = "AGW007"
	// CodeDanglingEndnode means an @endnode without open node was removed.
	CodeDanglingEndnode = "AGW008"
	// CodeObsoleteLinkType means an alink was turned into a link.
	CodeObsoleteLinkType = "AGW009"
	// CodeUnexpectedLinkOptions means surplus link options were removed.
	CodeUnexpectedLinkOptions = "AGW010"
	// CodeBrokenLineNumber means a link line number was removed.
	CodeBrokenLineNumber = "AGW011"
)

// Notes: nothing was changed.
const (
	// CodeObsoleteCommand means a command is obsolete and has no effect.
	CodeObsoleteCommand = "AGI001"
	// CodeUnusedCommand means a command is accepted but has no effect.
	CodeUnusedCommand = "AGI002"
	// CodeUnexpectedOption means a command has more options than it uses.
	CodeUnexpectedOption = "AGI003"
)
