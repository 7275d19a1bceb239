package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	devenv "toolbox-backend/dev/env"
)

// FilesystemOutput dumps every instrumented http exchange into its own file,
// prefixed with a sequence number so a directory listing reads in order.
// The directory is emptied when the output is created.
type FilesystemOutput struct {
	dir string
	seq *atomic.Uint64
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	resolved, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(resolved)
	if err == nil {
		err = os.MkdirAll(resolved, 0777)
	}
	if err != nil {
		return FilesystemOutput{}, fmt.Errorf("prepare %s: %w", resolved, err)
	}
	return FilesystemOutput{dir: resolved, seq: &atomic.Uint64{}}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	name := fmt.Sprintf("%05d-%s.http", o.seq.Add(1), id)
	err := os.WriteFile(filepath.Join(o.dir, name), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to dump http exchange", "file", name, "err", err)
	}
}
