package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"go.yaml.in/yaml/v3"
)

// jsonIndent matches the indentation composer itself writes.
const jsonIndent = "    "

// Document is a JSON object that keeps its key order across a
// read-modify-write. Comments and trailing commas in the input are
// accepted and dropped.
type Document struct {
	root *yaml.Node
}

// ParseDocument parses data into a Document. The top-level value must be
// an object.
func ParseDocument(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	root, err := decodeNode(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing JSON: top-level value is not an object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing JSON: unexpected data after top-level object")
	}
	return &Document{root: root}, nil
}

// decodeNode reads one JSON value from dec into a node. Scalars keep
// their source spelling for numbers, and strings are stored unescaped.
func decodeNode(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := &yaml.Node{Kind: yaml.MappingNode}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", kt)
				}
				val, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				m.Content = append(m.Content, stringNode(key), val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for dec.More() {
				item, err := decodeNode(dec)
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected %q", v)
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Lookup returns the value at path, or nil.
func (d *Document) Lookup(path ...string) *yaml.Node {
	cur := d.root
	for _, key := range path {
		if cur == nil || cur.Kind != yaml.MappingNode {
			return nil
		}
		cur = mapGet(cur, key)
	}
	return cur
}

// EnsureMap returns the object at path, creating missing objects.
func (d *Document) EnsureMap(path ...string) (*yaml.Node, error) {
	return d.ensure(yaml.MappingNode, path)
}

// EnsureList returns the array at path, creating it and any missing
// parent objects.
func (d *Document) EnsureList(path ...string) (*yaml.Node, error) {
	return d.ensure(yaml.SequenceNode, path)
}

func (d *Document) ensure(kind yaml.Kind, path []string) (*yaml.Node, error) {
	cur := d.root
	for i, key := range path {
		want := yaml.MappingNode
		if i == len(path)-1 {
			want = kind
		}
		next := mapGet(cur, key)
		if next == nil {
			next = &yaml.Node{Kind: want, Style: yaml.FlowStyle}
			mapSet(cur, key, next)
		}
		if next.Kind != want {
			return nil, fmt.Errorf("%s is not an %s", strings.Join(path[:i+1], "."), kindName(want))
		}
		cur = next
	}
	return cur, nil
}

// Encode renders the document with four-space indentation, unescaped
// slashes and a trailing newline.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, d.root, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := encodeString(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeNode(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + strings.Repeat(jsonIndent, depth) + "}")
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := encodeNode(buf, item, depth+1); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + strings.Repeat(jsonIndent, depth) + "]")
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return encodeString(buf, n.Value)
		case "!!null":
			buf.WriteString("null")
		default:
			// Numbers and booleans keep their source spelling.
			buf.WriteString(n.Value)
		}
	default:
		return fmt.Errorf("encoding JSON: unsupported node kind %d", n.Kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

func kindName(k yaml.Kind) string {
	if k == yaml.SequenceNode {
		return "array"
	}
	return "object"
}

func mapGet(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func mapSet(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func mapDelete(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return true
		}
	}
	return false
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func listIndex(seq *yaml.Node, value string) int {
	for i, item := range seq.Content {
		if item.Kind == yaml.ScalarNode && item.Value == value {
			return i
		}
	}
	return -1
}
