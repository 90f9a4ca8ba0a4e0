package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	yamlIndentSpacesConstant            = 2
	yamlStringTagConstant               = "!!str"
	unsupportedNodeKindTemplateConstant = "unsupported yaml node kind %d at line %d"
	nonScalarMappingKeyTemplateConstant = "mapping key at line %d is not a scalar"
	documentEncodeErrorTemplateConstant = "unable to encode document: %w"
	documentDecodeErrorTemplateConstant = "unable to decode document: %w"
	scalarDecodeErrorTemplateConstant   = "unable to decode scalar at line %d: %w"
	valueEncodeErrorTemplateConstant    = "unable to encode value %v: %w"
)

// ToNode converts a document value into a yaml.v3 node, preserving Mapping entry order.
func ToNode(value any) (*yaml.Node, error) {
	switch typedValue := value.(type) {
	case Mapping:
		mappingNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, entry := range typedValue.Entries {
			valueNode, conversionError := ToNode(entry.Value)
			if conversionError != nil {
				return nil, conversionError
			}
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTagConstant, Value: entry.Key}
			mappingNode.Content = append(mappingNode.Content, keyNode, valueNode)
		}
		return mappingNode, nil
	case *Mapping:
		if typedValue == nil {
			return ToNode(nil)
		}
		return ToNode(*typedValue)
	case Sequence:
		sequenceNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, element := range typedValue {
			elementNode, conversionError := ToNode(element)
			if conversionError != nil {
				return nil, conversionError
			}
			sequenceNode.Content = append(sequenceNode.Content, elementNode)
		}
		return sequenceNode, nil
	default:
		scalarNode := &yaml.Node{}
		if encodeError := scalarNode.Encode(typedValue); encodeError != nil {
			return nil, fmt.Errorf(valueEncodeErrorTemplateConstant, typedValue, encodeError)
		}
		return scalarNode, nil
	}
}

// FromNode converts a yaml.v3 node into a document value.
func FromNode(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.MappingNode:
		mapping := Mapping{Entries: make([]Entry, 0, len(node.Content)/2)}
		for contentIndex := 0; contentIndex+1 < len(node.Content); contentIndex += 2 {
			keyNode := node.Content[contentIndex]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf(nonScalarMappingKeyTemplateConstant, keyNode.Line)
			}
			value, conversionError := FromNode(node.Content[contentIndex+1])
			if conversionError != nil {
				return nil, conversionError
			}
			mapping.Set(keyNode.Value, value)
		}
		return mapping, nil
	case yaml.SequenceNode:
		sequence := make(Sequence, 0, len(node.Content))
		for _, elementNode := range node.Content {
			element, conversionError := FromNode(elementNode)
			if conversionError != nil {
				return nil, conversionError
			}
			sequence = append(sequence, element)
		}
		return sequence, nil
	case yaml.ScalarNode:
		var scalar any
		if decodeError := node.Decode(&scalar); decodeError != nil {
			return nil, fmt.Errorf(scalarDecodeErrorTemplateConstant, node.Line, decodeError)
		}
		return scalar, nil
	default:
		return nil, fmt.Errorf(unsupportedNodeKindTemplateConstant, node.Kind, node.Line)
	}
}

// Encode writes value to writer as a YAML document.
func Encode(writer io.Writer, value any) error {
	node, conversionError := ToNode(value)
	if conversionError != nil {
		return fmt.Errorf(documentEncodeErrorTemplateConstant, conversionError)
	}

	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentSpacesConstant)
	if encodeError := encoder.Encode(node); encodeError != nil {
		return fmt.Errorf(documentEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(documentEncodeErrorTemplateConstant, closeError)
	}
	return nil
}

// Decode reads a single YAML document from reader. An empty input yields a nil value.
func Decode(reader io.Reader) (any, error) {
	var rootNode yaml.Node
	decodeError := yaml.NewDecoder(reader).Decode(&rootNode)
	if errors.Is(decodeError, io.EOF) {
		return nil, nil
	}
	if decodeError != nil {
		return nil, fmt.Errorf(documentDecodeErrorTemplateConstant, decodeError)
	}
	return FromNode(&rootNode)
}

// Marshal renders value as YAML bytes.
func Marshal(value any) ([]byte, error) {
	var buffer bytes.Buffer
	if encodeError := Encode(&buffer, value); encodeError != nil {
		return nil, encodeError
	}
	return buffer.Bytes(), nil
}

// Unmarshal parses YAML bytes into a document value.
func Unmarshal(content []byte) (any, error) {
	return Decode(bytes.NewReader(content))
}
