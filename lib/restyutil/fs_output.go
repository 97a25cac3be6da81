package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// ResponseOutput receives raw response bodies for offline inspection.
type ResponseOutput interface {
	Write(id string, contents []byte)
}

// FilesystemOutput writes every response body to a file named after its id.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents []byte) {
	err := os.WriteFile(filepath.Join(o.directory, filepath.Base(id)), contents, 0600)
	if err != nil {
		slog.Warn("failed to write response file", "id", id, "err", err)
	}
}
