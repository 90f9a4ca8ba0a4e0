package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/temirov/tsrcmgr/internal/document"
	pathutils "github.com/temirov/tsrcmgr/internal/utils/path"
)

const (
	manifestDirectoryPermissionsConstant = 0o755
	outputWriteErrorTemplateConstant     = "unable to write manifest %s: %v"
)

// OutputWriteError reports a manifest that could not be written to its destination.
type OutputWriteError struct {
	Path  string
	Cause error
}

// Error describes the write failure.
func (writeError OutputWriteError) Error() string {
	return fmt.Sprintf(outputWriteErrorTemplateConstant, writeError.Path, writeError.Cause)
}

// Unwrap exposes the underlying failure.
func (writeError OutputWriteError) Unwrap() error {
	return writeError.Cause
}

// Writer persists manifests as YAML files.
type Writer struct {
	homeExpander *pathutils.HomeExpander
}

// NewWriter constructs a Writer. A nil expander falls back to the operating system home directory.
func NewWriter(homeExpander *pathutils.HomeExpander) *Writer {
	if homeExpander == nil {
		homeExpander = pathutils.NewHomeExpander()
	}
	return &Writer{homeExpander: homeExpander}
}

// Write serializes outputManifest to destinationPath, creating the parent directory when needed.
func (writer *Writer) Write(destinationPath string, outputManifest OutputManifest) (writeError error) {
	resolvedPath := writer.homeExpander.Expand(destinationPath)

	if directoryError := os.MkdirAll(filepath.Dir(resolvedPath), manifestDirectoryPermissionsConstant); directoryError != nil {
		return OutputWriteError{Path: destinationPath, Cause: directoryError}
	}

	fileHandle, createError := os.Create(resolvedPath)
	if createError != nil {
		return OutputWriteError{Path: destinationPath, Cause: createError}
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && writeError == nil {
			writeError = OutputWriteError{Path: destinationPath, Cause: closeError}
		}
	}()

	if encodeError := Encode(fileHandle, outputManifest); encodeError != nil {
		return OutputWriteError{Path: destinationPath, Cause: encodeError}
	}

	return nil
}

// Encode renders outputManifest as YAML to the provided writer.
func Encode(output io.Writer, outputManifest OutputManifest) error {
	return document.Encode(output, outputManifest.Document())
}
