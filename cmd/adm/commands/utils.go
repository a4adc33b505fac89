package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// maskDatabaseURL masks credentials in the database URL for display
func maskDatabaseURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.SplitN(url, "@", 2)
		if len(parts) == 2 {
			return "postgres://***:***@" + parts[1]
		}
	}
	return url
}

// printer writes human readable text on a terminal and one JSON object per line otherwise
type printer struct {
	out    io.Writer
	pretty bool
}

func newPrinter(out io.Writer) *printer {
	pretty := false
	if f, ok := out.(*os.File); ok {
		pretty = term.IsTerminal(int(f.Fd()))
	}
	return &printer{out: out, pretty: pretty}
}

// emit prints text on a terminal, otherwise the JSON encoding of v
func (p *printer) emit(text string, v interface{}) error {
	if p.pretty {
		_, err := fmt.Fprintln(p.out, text)
		return err
	}
	return json.NewEncoder(p.out).Encode(v)
}
