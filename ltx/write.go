package ltx

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/meigma/xrf/chunk"
	"github.com/meigma/xrf/internal/batch"
)

const lineEnd = "\r\n"

// Write emits the document as UTF-8 text with CRLF line endings.
func (l *Ltx) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	first := true
	for _, inc := range l.Includes {
		first = false
		fmt.Fprintf(bw, "#include \"%s\""+lineEnd, inc)
	}
	for _, s := range l.sections {
		if s.Name == RootSection && s.Len() == 0 {
			continue
		}
		if !first {
			bw.WriteString(lineEnd)
		}
		first = false
		if s.Name != RootSection {
			bw.WriteString("[" + s.Name + "]")
			if len(s.Parents) > 0 {
				bw.WriteString(":" + strings.Join(s.Parents, ","))
			}
			bw.WriteString(lineEnd)
		}
		for _, k := range s.keys {
			fmt.Fprintf(bw, "%s = %s"+lineEnd, k, s.values[k])
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	return nil
}

// String returns the text produced by Write.
func (l *Ltx) String() string {
	var sb strings.Builder
	_ = l.Write(&sb) //nolint:errcheck // strings.Builder does not fail
	return sb.String()
}

// Encode returns the document encoded as Windows-1251.
func (l *Ltx) Encode() ([]byte, error) {
	out, err := charmap.Windows1251.NewEncoder().String(l.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", chunk.ErrEncoding, err)
	}
	return []byte(out), nil
}

// WriteFile encodes the document as Windows-1251 and replaces path
// atomically, creating parent directories.
func (l *Ltx) WriteFile(path string) error {
	data, err := l.Encode()
	if err != nil {
		return fmt.Errorf("ltx %s: %w", path, err)
	}
	if err := batch.WriteFile(path, data); err != nil {
		return fmt.Errorf("%w: %w", chunk.ErrIO, err)
	}
	return nil
}
