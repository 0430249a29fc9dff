package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Field is one line of a Report.
type Field struct {
	Key   string
	Value any
}

// Report is an ordered list of fields printed by the info commands.
type Report []Field

// Add appends a field and returns the report.
func (r Report) Add(key string, value any) Report {
	return append(r, Field{Key: key, Value: value})
}

// MarshalYAML encodes the report as a mapping in field order.
func (r Report) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		var value yaml.Node
		if err := value.Encode(f.Value); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.Key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, &value)
	}
	return node, nil
}

// Render writes r to w as aligned "key: value" lines or as YAML.
func (r Report) Render(w io.Writer, format string) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	for _, f := range r {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Key, formatValue(f.Value))
	}
	return tw.Flush()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case []string:
		if len(v) == 0 {
			return "-"
		}
		return strings.Join(v, ", ")
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Digest returns the hex BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
