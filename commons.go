package xavassl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func pathExist(v string) (ok bool) {
	_, err := os.Stat(v)
	if err == nil {
		ok = true
		return
	}
	ok = !os.IsNotExist(err)
	return
}

// WriteArtifact writes content to dir/name, creating dir when missing and
// replacing any existing file.
func WriteArtifact(dir string, name string, content []byte) (path string, err error) {
	op := "write " + name
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if !pathExist(dir) {
		if mkdirErr := os.MkdirAll(dir, 0755); mkdirErr != nil {
			err = NewError(op, ErrFileWrite, mkdirErr)
			return
		}
	} else if stat, statErr := os.Stat(dir); statErr != nil || !stat.IsDir() {
		err = NewError(op, ErrFileWrite, fmt.Errorf("%s is not a directory", dir))
		return
	}
	path = filepath.Join(dir, name)
	if writeErr := os.WriteFile(path, content, 0644); writeErr != nil {
		err = NewError(op, ErrFileWrite, writeErr)
		return
	}
	return
}
