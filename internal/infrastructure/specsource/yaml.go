package specsource

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"calibration_analyzer/internal/domain/entity"
)

// DecodeYAMLSpecifications принимает те же формы, что DecodeSpecifications,
// но в YAML. Порядок ключей сохраняется.
func DecodeYAMLSpecifications(data []byte, defaultSource string) (entity.SpecificationSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("yaml.Unmarshal: %w: %w", ErrInvalidDocument, err)
	}

	if doc.Kind == 0 {
		return DecodeSpecifications([]byte("null"), defaultSource)
	}

	var buf bytes.Buffer

	stream := jsoniter.NewStream(json, &buf, 512)
	if err := writeYAMLNode(stream, &doc); err != nil {
		return entity.SpecificationSet{}, err
	}

	if err := stream.Flush(); err != nil {
		return entity.SpecificationSet{}, fmt.Errorf("stream.Flush: %w", err)
	}

	return DecodeSpecifications(buf.Bytes(), defaultSource)
}

func writeYAMLNode(stream *jsoniter.Stream, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			stream.WriteNil()
			return nil
		}

		return writeYAMLNode(stream, node.Content[0])
	case yaml.AliasNode:
		return writeYAMLNode(stream, node.Alias)
	case yaml.MappingNode:
		stream.WriteObjectStart()

		for i, p := range mappingPairs(node) {
			if i > 0 {
				stream.WriteMore()
			}

			stream.WriteObjectField(p.key)

			if err := writeYAMLNode(stream, p.value); err != nil {
				return err
			}
		}

		stream.WriteObjectEnd()
	case yaml.SequenceNode:
		stream.WriteArrayStart()

		for i, item := range node.Content {
			if i > 0 {
				stream.WriteMore()
			}

			if err := writeYAMLNode(stream, item); err != nil {
				return err
			}
		}

		stream.WriteArrayEnd()
	case yaml.ScalarNode:
		return writeYAMLScalar(stream, node)
	default:
		return fmt.Errorf("yaml node kind %d at line %d: %w", node.Kind, node.Line, ErrInvalidDocument)
	}

	return nil
}

func writeYAMLScalar(stream *jsoniter.Stream, node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		stream.WriteNil()
	case "!!bool", "!!int", "!!float":
		var v any
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("line %d: %w: %w", node.Line, ErrInvalidDocument, err)
		}

		stream.WriteVal(v)
	default:
		stream.WriteString(node.Value)
	}

	return nil
}

type yamlPair struct {
	key   string
	value *yaml.Node
}

// mappingPairs раскрывает ключи слияния "<<". Явные ключи важнее слитых.
func mappingPairs(node *yaml.Node) []yamlPair {
	var (
		explicit = make(map[string]struct{})
		merged   []yamlPair
		own      []yamlPair
	)

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]

		if key.ShortTag() != "!!merge" {
			explicit[key.Value] = struct{}{}
			own = append(own, yamlPair{key: key.Value, value: val})

			continue
		}

		sources := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			sources = val.Content
		}

		for _, src := range sources {
			for src.Kind == yaml.AliasNode {
				src = src.Alias
			}

			if src.Kind == yaml.MappingNode {
				merged = append(merged, mappingPairs(src)...)
			}
		}
	}

	seen := make(map[string]struct{}, len(merged))
	result := make([]yamlPair, 0, len(merged)+len(own))

	for _, p := range merged {
		if _, ok := explicit[p.key]; ok {
			continue
		}

		if _, ok := seen[p.key]; ok {
			continue
		}

		seen[p.key] = struct{}{}
		result = append(result, p)
	}

	return append(result, own...)
}
