package presenter

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"

	"github.com/cbout22/nix-prefetch-github/internal/config"
)

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Highlighter colours output for a 256 colour terminal.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter looks up the chroma style by name.
func NewHighlighter(theme string) (*Highlighter, error) {
	style := styles.Get(theme)
	if style == nil || (style == styles.Fallback && theme != style.Name) {
		return nil, fmt.Errorf("unknown style: %s", theme)
	}
	return &Highlighter{style: style, formatter: formatters.Get("terminal256")}, nil
}

// Write tokenises text with the lexer for format and writes it to w.
func (h *Highlighter) Write(w io.Writer, text, format string) error {
	lx := lexers.Get(lexerName(format))
	if lx == nil {
		lx = lexers.Fallback
	}
	iterator, err := lx.Tokenise(nil, text)
	if err != nil {
		return err
	}
	return h.formatter.Format(w, h.style, iterator)
}

func lexerName(format string) string {
	if format == config.FormatNix {
		return "nix"
	}
	return "json"
}

// UseColor decides whether output to w is highlighted.
func UseColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("unknown color mode %q (want auto, always or never)", mode)
	}
}
