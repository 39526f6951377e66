package content

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	domcontent "github.com/kailas-cloud/murmur/internal/domain/content"
)

// Front matter must open the file; a later "---" line is a thematic break.
var frontMatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(?:(.*?)\r?\n)?---[ \t]*(?:\r?\n|\z)`)

const (
	keyTime       = "time"
	keyTags       = "tags"
	keyName       = "name"
	keyBackground = "background"
)

// splitFrontMatter returns the YAML block and the body. Files without a
// leading block are all body.
func splitFrontMatter(data []byte) (fm, body []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if loc == nil {
		return nil, data
	}
	if loc[2] >= 0 {
		fm = data[loc[2]:loc[3]]
	}
	return fm, data[loc[1]:]
}

// parseFile decodes an entry file. Malformed front matter yields empty
// metadata and the whole file as body.
func parseFile(data []byte) (domcontent.Meta, string) {
	fm, body := splitFrontMatter(data)
	if fm == nil {
		return domcontent.Meta{}, string(body)
	}
	meta, err := decodeMeta(fm)
	if err != nil {
		return domcontent.Meta{}, string(data)
	}
	return meta, string(body)
}

func decodeMeta(fm []byte) (domcontent.Meta, error) {
	var meta domcontent.Meta
	if len(bytes.TrimSpace(fm)) == 0 {
		return meta, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return meta, fmt.Errorf("parse front matter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return meta, nil
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return meta, fmt.Errorf("front matter is not a mapping")
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		value := mapping.Content[i+1]
		switch key {
		case keyTime:
			meta.Time = value.Value
		case keyTags:
			meta.Tags = flattenYAMLValue(value)
		case keyName:
			meta.Name = value.Value
		case keyBackground:
			meta.Background = value.Value
		default:
			var v any
			if err := value.Decode(&v); err != nil {
				return meta, fmt.Errorf("decode %q: %w", key, err)
			}
			if meta.Extra == nil {
				meta.Extra = make(map[string]any)
			}
			meta.Extra[key] = v
		}
	}
	return meta, nil
}

func flattenYAMLValue(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		vals := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode && child.Value != "" {
				vals = append(vals, child.Value)
			}
		}
		return vals
	case yaml.ScalarNode:
		if node.Value == "" || node.Tag == "!!null" {
			return []string{}
		}
		return []string{node.Value}
	default:
		return nil
	}
}

// encodeFile renders the on-disk form: known keys first, extras sorted.
func encodeFile(kind domcontent.Kind, meta domcontent.Meta, raw string) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	addScalar := func(key, value string) {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
		)
	}

	addScalar(keyTime, meta.Time)
	switch kind {
	case domcontent.KindPost:
		tags := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, t := range meta.Tags {
			tags.Content = append(tags.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t})
		}
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: keyTags}, tags)
	case domcontent.KindStatus:
		addScalar(keyName, meta.Name)
		addScalar(keyBackground, meta.Background)
	}

	keys := make([]string, 0, len(meta.Extra))
	for k := range meta.Extra {
		switch k {
		case keyTime, keyTags, keyName, keyBackground:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var value yaml.Node
		if err := value.Encode(meta.Extra[k]); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, &value)
	}

	fm, err := yaml.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(fm) + len(raw) + 8)
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n")
	buf.WriteString(raw)
	return buf.Bytes(), nil
}
