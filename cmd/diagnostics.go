package cmd

import (
	"fmt"
	"io"

	"github.com/eykd/amigaguide-go/internal/parse"
)

// hasDiagnosticError reports whether any diagnostic in diags has error severity.
func hasDiagnosticError(diags []parse.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == parse.SeverityError {
			return true
		}
	}
	return false
}

// printDiagnostics writes each diagnostic to w in human-readable form.
func printDiagnostics(w io.Writer, diags []parse.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s (%s)\n", d.Severity, sanitize(d.String()), d.Code)
	}
}

// printUndefinedPrefixes tells how to map devices that had no local folder.
func printUndefinedPrefixes(w io.Writer, prefixes []string) {
	for _, p := range prefixes {
		p = sanitize(p)
		fmt.Fprintf(w, "info: Amiga device %s has no local folder; map it with --path %s=FOLDER\n", p, p)
	}
}
