package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// yamlFormat decodes with yaml.v3 so Node-based unmarshalers such as id.ID
// are honoured.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// Parse reads YAML frontmatter and body from r into T. Input without a
// frontmatter block is rejected. Only the blank separator line and the final
// newline written by Marshal are stripped from the body.
func Parse[T any](r io.Reader) (T, string, error) {
	var meta T
	body, err := frontmatter.MustParse(r, &meta, yamlFormat)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	s := strings.TrimPrefix(string(body), "\n")
	s = strings.TrimSuffix(s, "\n")
	return meta, s, nil
}

// Marshal serializes meta as YAML frontmatter followed by a blank line and body.
func Marshal[T any](meta T, body string) ([]byte, error) {
	var fm bytes.Buffer
	enc := yaml.NewEncoder(&fm)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm.Bytes())
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
