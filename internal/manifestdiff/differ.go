package manifestdiff

import (
	"fmt"
	"os"
	"strings"

	"github.com/temirov/tsrcmgr/internal/document"
)

// DiffKind classifies a difference.
type DiffKind string

// Difference kinds.
const (
	DiffKindAdded   DiffKind = "added"
	DiffKindRemoved DiffKind = "removed"
	DiffKindChanged DiffKind = "changed"
)

const (
	pathKeySeparatorConstant          = "."
	pathIndexTemplateConstant         = "[%d]"
	rootPathLabelConstant             = "(root)"
	documentLoadErrorTemplateConstant = "failed to load %s: %v"
)

// PathElement addresses one step into a document: a mapping key or a sequence index.
type PathElement struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeyElement addresses a mapping entry.
func KeyElement(key string) PathElement {
	return PathElement{Key: key}
}

// IndexElement addresses a sequence position.
func IndexElement(index int) PathElement {
	return PathElement{Index: index, IsIndex: true}
}

// DiffEntry is one difference between two documents.
type DiffEntry struct {
	Kind     DiffKind
	Path     []PathElement
	OldValue any
	NewValue any
}

// PathString renders Path as "repos[0].dest".
func (entry DiffEntry) PathString() string {
	if len(entry.Path) == 0 {
		return rootPathLabelConstant
	}
	var builder strings.Builder
	for elementIndex, element := range entry.Path {
		if element.IsIndex {
			builder.WriteString(fmt.Sprintf(pathIndexTemplateConstant, element.Index))
			continue
		}
		if elementIndex > 0 {
			builder.WriteString(pathKeySeparatorConstant)
		}
		builder.WriteString(element.Key)
	}
	return builder.String()
}

// DocumentLoadError reports a document that could not be read or parsed.
type DocumentLoadError struct {
	Path  string
	Cause error
}

// Error describes the load failure.
func (loadError DocumentLoadError) Error() string {
	return fmt.Sprintf(documentLoadErrorTemplateConstant, loadError.Path, loadError.Cause)
}

// Unwrap exposes the underlying failure.
func (loadError DocumentLoadError) Unwrap() error {
	return loadError.Cause
}

// LoadDocument reads a YAML file into the ordered document tree.
func LoadDocument(path string) (any, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return nil, DocumentLoadError{Path: path, Cause: readError}
	}
	value, decodeError := document.Unmarshal(content)
	if decodeError != nil {
		return nil, DocumentLoadError{Path: path, Cause: decodeError}
	}
	return value, nil
}

// Diff lists the differences turning left into right. Identical documents yield an empty result.
func Diff(left any, right any) []DiffEntry {
	differences := make([]DiffEntry, 0)
	return diffValues(nil, left, right, differences)
}

func diffValues(path []PathElement, left any, right any, differences []DiffEntry) []DiffEntry {
	if document.Equal(left, right) {
		return differences
	}

	leftMapping, leftIsMapping := left.(document.Mapping)
	rightMapping, rightIsMapping := right.(document.Mapping)
	if leftIsMapping && rightIsMapping {
		return diffMappings(path, leftMapping, rightMapping, differences)
	}

	leftSequence, leftIsSequence := left.(document.Sequence)
	rightSequence, rightIsSequence := right.(document.Sequence)
	if leftIsSequence && rightIsSequence {
		return diffSequences(path, leftSequence, rightSequence, differences)
	}

	return append(differences, DiffEntry{Kind: DiffKindChanged, Path: path, OldValue: left, NewValue: right})
}

func diffMappings(path []PathElement, left document.Mapping, right document.Mapping, differences []DiffEntry) []DiffEntry {
	for _, leftEntry := range left.Entries {
		entryPath := extendPath(path, KeyElement(leftEntry.Key))
		rightValue, existsOnRight := right.Get(leftEntry.Key)
		if !existsOnRight {
			differences = append(differences, DiffEntry{Kind: DiffKindRemoved, Path: entryPath, OldValue: leftEntry.Value})
			continue
		}
		differences = diffValues(entryPath, leftEntry.Value, rightValue, differences)
	}
	for _, rightEntry := range right.Entries {
		if _, existsOnLeft := left.Get(rightEntry.Key); existsOnLeft {
			continue
		}
		differences = append(differences, DiffEntry{Kind: DiffKindAdded, Path: extendPath(path, KeyElement(rightEntry.Key)), NewValue: rightEntry.Value})
	}
	return differences
}

func diffSequences(path []PathElement, left document.Sequence, right document.Sequence, differences []DiffEntry) []DiffEntry {
	sharedLength := min(len(left), len(right))
	for elementIndex := 0; elementIndex < sharedLength; elementIndex++ {
		differences = diffValues(extendPath(path, IndexElement(elementIndex)), left[elementIndex], right[elementIndex], differences)
	}
	for elementIndex := sharedLength; elementIndex < len(left); elementIndex++ {
		differences = append(differences, DiffEntry{Kind: DiffKindRemoved, Path: extendPath(path, IndexElement(elementIndex)), OldValue: left[elementIndex]})
	}
	for elementIndex := sharedLength; elementIndex < len(right); elementIndex++ {
		differences = append(differences, DiffEntry{Kind: DiffKindAdded, Path: extendPath(path, IndexElement(elementIndex)), NewValue: right[elementIndex]})
	}
	return differences
}

// extendPath copies path so sibling entries never share a backing array.
func extendPath(path []PathElement, element PathElement) []PathElement {
	extended := make([]PathElement, len(path), len(path)+1)
	copy(extended, path)
	return append(extended, element)
}
