// FILE: lixenwraith/dataobject/codec.go
package dataobject

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names a text or binary serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "msgpack", "mpk", "messagepack":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// DetectFormat determines the format from a file name extension, falling back
// to content sniffing. It returns "" when nothing matches.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml", ".tml":
		return FormatTOML
	case ".msgpack", ".mpk":
		return FormatMsgpack
	}
	return detectFormatFromContent(data)
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) Format {
	// JSON first, the strictest grammar
	if json.Valid(data) {
		return FormatJSON
	}

	// TOML before YAML: most TOML documents are also valid YAML scalars
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil && len(tomlTest) > 0 {
		return FormatTOML
	}

	var yamlTest yaml.Node
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && len(yamlTest.Content) > 0 {
		if yamlTest.Content[0].Kind == yaml.MappingNode {
			return FormatYAML
		}
	}

	return ""
}

// Parse decodes data in the given format and builds a DataObject from it.
// Key order is preserved for JSON, YAML and the top level of MessagePack;
// TOML tables come back in sorted key order.
func Parse(data []byte, format Format) (*DataObject, error) {
	var decoded any

	switch format {
	case FormatJSON:
		if err := checkJSONDocument(data); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		v, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		decoded = v
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		v, err := decodeYAMLNode(&node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		decoded = v
	case FormatTOML:
		m := make(map[string]any)
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		decoded = m
	case FormatMsgpack:
		r := NewRecord()
		if err := msgpack.Unmarshal(data, r); err != nil {
			return nil, fmt.Errorf("failed to parse MessagePack: %w", err)
		}
		decoded = r
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return Of(decoded)
}

// Encode serializes the exported structure in the given format.
func (d *DataObject) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return d.MarshalJSON()
	case FormatYAML:
		return yaml.Marshal(d.ToArray())
	case FormatTOML:
		var buf bytes.Buffer
		if err := d.Dump(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return msgpack.Marshal(d.ToArray())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Dump writes the exported structure to w in TOML format
func (d *DataObject) Dump(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(d.ToMap()); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

// MarshalYAML encodes the record as an ordered YAML mapping.
func (r *Record) MarshalYAML() (any, error) {
	return yamlNodeOf(r)
}

// UnmarshalYAML replaces the record contents with a YAML mapping.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := decodeYAMLNode(value)
	if err != nil {
		return err
	}
	rec, ok := decoded.(*Record)
	if !ok {
		return fmt.Errorf("expected YAML mapping, got %T", decoded)
	}
	*r = *rec
	return nil
}

// MarshalYAML encodes the exported structure.
func (d *DataObject) MarshalYAML() (any, error) {
	return yamlNodeOf(d.ToArray())
}

// UnmarshalYAML replaces the store without shape validation.
func (d *DataObject) UnmarshalYAML(value *yaml.Node) error {
	r := NewRecord()
	if err := r.UnmarshalYAML(value); err != nil {
		return err
	}
	d.store = r
	return nil
}

func yamlNodeOf(v any) (*yaml.Node, error) {
	switch kindOf(v) {
	case KindRecord:
		r := v.(*Record)
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range r.Keys() {
			value, err := yamlNodeOf(r.values[k])
			if err != nil {
				return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				value,
			)
		}
		return node, nil
	case KindSequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.([]any) {
			elem, err := yamlNodeOf(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, elem)
		}
		return node, nil
	case KindObject:
		return yamlNodeOf(exportValue(v))
	}

	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias)
	case yaml.MappingNode:
		r := NewRecord(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			value, err := decodeYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			r.Set(n.Content[i].Value, value)
		}
		return r, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			value, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if i, ok := v.(int); ok {
			return int64(i), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
}

var (
	_ msgpack.CustomEncoder = (*Record)(nil)
	_ msgpack.CustomDecoder = (*Record)(nil)
)

// EncodeMsgpack encodes the record as a MessagePack map preserving key order.
func (r *Record) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(r.Len()); err != nil {
		return err
	}
	for _, k := range r.Keys() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(r.values[k]); err != nil {
			return fmt.Errorf("failed to encode key %q: %w", k, err)
		}
	}
	return nil
}

// DecodeMsgpack replaces the record contents with a MessagePack map. Nested
// maps are decoded in sorted key order.
func (r *Record) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}

	decoded := NewRecord(max(n, 0))
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return fmt.Errorf("failed to decode key: %w", err)
		}
		value, err := dec.DecodeInterfaceLoose()
		if err != nil {
			return fmt.Errorf("failed to decode key %q: %w", key, err)
		}
		decoded.Set(key, normalize(value))
	}
	*r = *decoded
	return nil
}

// EncodeMsgpack encodes the exported structure.
func (d *DataObject) EncodeMsgpack(enc *msgpack.Encoder) error {
	return d.ToArray().EncodeMsgpack(enc)
}

// DecodeMsgpack replaces the store without shape validation.
func (d *DataObject) DecodeMsgpack(dec *msgpack.Decoder) error {
	r := NewRecord()
	if err := r.DecodeMsgpack(dec); err != nil {
		return err
	}
	d.store = r
	return nil
}
