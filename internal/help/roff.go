// Package help renders man pages for the mm command tree.
package help

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ManName returns the man page name: "mm" for the root, "mm-history-list"
// for nested commands.
func ManName(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "-")
}

// FormatRoff renders cmd as a roff-formatted man page (.1).
// If date is empty, today's date is used (pass a fixed date for reproducible builds).
func FormatRoff(cmd *cobra.Command, version, date string) string {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var b strings.Builder

	fmt.Fprintf(&b, ".TH %s 1 %q %q %q\n",
		strings.ToUpper(ManName(cmd)), date, "mm "+version, "Manuscript-Match Manual")

	b.WriteString(".SH NAME\n")
	fmt.Fprintf(&b, "%s \\- %s\n", ManName(cmd), escapeRoff(cmd.Short))

	b.WriteString(".SH SYNOPSIS\n")
	if subs := available(cmd); len(subs) > 0 && !cmd.Runnable() {
		fmt.Fprintf(&b, ".B %s\n.I command\n.RI [ options ]\n", escapeRoff(cmd.CommandPath()))
	} else {
		b.WriteString(".B " + escapeRoff(cmd.UseLine()) + "\n")
	}

	if desc := cmd.Long; desc != "" {
		b.WriteString(".SH DESCRIPTION\n")
		writeRoffParagraphs(&b, desc)
	}

	if subs := available(cmd); len(subs) > 0 {
		b.WriteString(".SH COMMANDS\n")
		for _, s := range subs {
			fmt.Fprintf(&b, ".TP\n.B \"%s\"\n%s\n", escapeRoff(s.UseLine()), escapeRoff(s.Short))
		}
	}

	var flags []string
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		flags = append(flags, fmt.Sprintf(".TP\n.B %s\n%s\n", escapeRoff(flagName(f)), escapeRoff(flagDesc(f))))
	})
	if len(flags) > 0 {
		b.WriteString(".SH OPTIONS\n")
		b.WriteString(strings.Join(flags, ""))
	}

	if cmd.Example != "" {
		b.WriteString(".SH EXAMPLES\n.nf\n")
		for _, line := range strings.Split(strings.TrimSpace(cmd.Example), "\n") {
			b.WriteString(escapeRoff(strings.TrimSpace(line)) + "\n")
		}
		b.WriteString(".fi\n")
	}

	if !cmd.HasParent() {
		b.WriteString(".SH CONFIGURATION\n")
		b.WriteString("Configuration file: ~/.config/manuscript\\-match/config.toml\n")
	}

	var refs []string
	if cmd.HasParent() {
		refs = append(refs, formatManRef(ManName(cmd.Parent())+"(1)"))
	}
	for _, s := range available(cmd) {
		refs = append(refs, formatManRef(ManName(s)+"(1)"))
	}
	if len(refs) > 0 {
		b.WriteString(".SH SEE ALSO\n")
		b.WriteString(strings.Join(refs, ",\n") + "\n")
	}

	return b.String()
}

// Generate writes a man page for root and every available command below it
// into dir and returns the written paths.
func Generate(root *cobra.Command, dir, version, date string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create man dir: %w", err)
	}

	var written []string
	var walk func(cmd *cobra.Command) error
	walk = func(cmd *cobra.Command) error {
		path := filepath.Join(dir, ManName(cmd)+".1")
		if err := os.WriteFile(path, []byte(FormatRoff(cmd, version, date)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		for _, s := range available(cmd) {
			if err := walk(s); err != nil {
				return err
			}
		}
		return nil
	}
	return written, walk(root)
}

func available(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, s := range cmd.Commands() {
		if s.IsAvailableCommand() && !s.IsAdditionalHelpTopicCommand() {
			out = append(out, s)
		}
	}
	return out
}

func flagName(f *pflag.Flag) string {
	name := "--" + f.Name
	if f.Shorthand != "" {
		name = "-" + f.Shorthand + ", " + name
	}
	if t := f.Value.Type(); t != "bool" {
		name += " <" + t + ">"
	}
	return name
}

func flagDesc(f *pflag.Flag) string {
	if f.DefValue == "" || f.DefValue == "false" || f.DefValue == "[]" {
		return f.Usage
	}
	return fmt.Sprintf("%s (default %s)", f.Usage, f.DefValue)
}

// escapeRoff escapes characters that have special meaning in roff:
//   - backslashes → \\
//   - leading dots → \&.
//   - bare hyphens → \-  (for proper rendering of dashes)
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	s = strings.ReplaceAll(s, "-", "\\-")
	return s
}

// writeRoffParagraphs writes multi-line description text as roff paragraphs.
// Blank lines in the input become .PP paragraph breaks.
func writeRoffParagraphs(b *strings.Builder, text string) {
	lines := strings.Split(text, "\n")
	prevBlank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteString(escapeRoff(line) + "\n")
	}
}

// formatManRef formats a "name(section)" reference with bold name.
func formatManRef(ref string) string {
	// Input like "mm-history(1)" → ".BR mm-history (1)"
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}
