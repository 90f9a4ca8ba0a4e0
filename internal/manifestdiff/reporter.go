package manifestdiff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/temirov/tsrcmgr/internal/document"
)

const (
	noDifferenceMessageConstant      = "No difference detected"
	differencesHeaderMessageConstant = "Differences detected:"
	singleValueLineTemplateConstant  = "%s %s: %s\n"
	changedLineTemplateConstant      = "%s %s: %s -> %s\n"
	nullValueLabelConstant           = "null"
)

// ColorMode selects when the reporter colors its output.
type ColorMode int

// Color modes.
const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

type fileDescriptorWriter interface {
	Fd() uintptr
}

// Reporter prints DiffEntry values as text lines.
type Reporter struct {
	colorMode ColorMode
}

// NewReporter constructs a Reporter using colorMode.
func NewReporter(colorMode ColorMode) *Reporter {
	return &Reporter{colorMode: colorMode}
}

// Report writes "No difference detected" for an empty diff, otherwise a header and one line per entry.
func (reporter *Reporter) Report(writer io.Writer, entries []DiffEntry) error {
	if len(entries) == 0 {
		_, writeError := fmt.Fprintln(writer, noDifferenceMessageConstant)
		return writeError
	}

	if _, writeError := fmt.Fprintln(writer, differencesHeaderMessageConstant); writeError != nil {
		return writeError
	}

	colorEnabled := reporter.colorEnabled(writer)
	for _, entry := range entries {
		if writeError := writeEntry(writer, entry, colorEnabled); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (reporter *Reporter) colorEnabled(writer io.Writer) bool {
	switch reporter.colorMode {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	default:
		descriptorWriter, hasDescriptor := writer.(fileDescriptorWriter)
		if !hasDescriptor || color.NoColor {
			return false
		}
		fileDescriptor := descriptorWriter.Fd()
		return isatty.IsTerminal(fileDescriptor) || isatty.IsCygwinTerminal(fileDescriptor)
	}
}

func writeEntry(writer io.Writer, entry DiffEntry, colorEnabled bool) error {
	kindColor := kindColor(entry.Kind)
	if colorEnabled {
		kindColor.EnableColor()
	} else {
		kindColor.DisableColor()
	}
	kindLabel := kindColor.Sprint(string(entry.Kind))

	var writeError error
	switch entry.Kind {
	case DiffKindAdded:
		_, writeError = fmt.Fprintf(writer, singleValueLineTemplateConstant, kindLabel, entry.PathString(), FormatValue(entry.NewValue))
	case DiffKindRemoved:
		_, writeError = fmt.Fprintf(writer, singleValueLineTemplateConstant, kindLabel, entry.PathString(), FormatValue(entry.OldValue))
	default:
		_, writeError = fmt.Fprintf(writer, changedLineTemplateConstant, kindLabel, entry.PathString(), FormatValue(entry.OldValue), FormatValue(entry.NewValue))
	}
	return writeError
}

func kindColor(kind DiffKind) *color.Color {
	switch kind {
	case DiffKindAdded:
		return color.New(color.FgGreen)
	case DiffKindRemoved:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// FormatValue renders a document value as single-line YAML flow text.
func FormatValue(value any) string {
	if value == nil {
		return nullValueLabelConstant
	}
	node, conversionError := document.ToNode(value)
	if conversionError != nil {
		return fmt.Sprint(value)
	}
	applyFlowStyle(node)

	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	if encodeError := encoder.Encode(node); encodeError != nil {
		return fmt.Sprint(value)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Sprint(value)
	}
	return strings.TrimSpace(buffer.String())
}

func applyFlowStyle(node *yaml.Node) {
	if node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode {
		node.Style = yaml.FlowStyle
	}
	for _, childNode := range node.Content {
		applyFlowStyle(childNode)
	}
}
