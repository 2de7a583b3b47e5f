//go:build tinygo

package web

import (
	"io"
	"path"

	"tinygo.org/x/tinyfs/littlefs"
)

type lfsFiles struct {
	lfs  *littlefs.LFS
	root string
}

// LittleFS serves files below root on a mounted littlefs volume.
func LittleFS(lfs *littlefs.LFS, root string) Files {
	return lfsFiles{lfs: lfs, root: root}
}

func (l lfsFiles) Open(name string) (io.ReadCloser, error) {
	f, err := l.lfs.Open(path.Join(l.root, name))
	if err != nil {
		return nil, ErrNotExist
	}
	if f.IsDir() {
		_ = f.Close()
		return nil, ErrNotExist
	}
	return f, nil
}
