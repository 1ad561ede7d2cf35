package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"

	board_errors "msgboard/pkg/errors"
)

// Object is an opened static asset. Size is -1 when unknown.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// AssetStore opens static assets by slash-separated key.
type AssetStore interface {
	Open(ctx context.Context, key string) (*Object, error)
}

// DirStore serves assets from a local directory.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (d *DirStore) Open(_ context.Context, key string) (*Object, error) {
	key, ok := cleanKey(key)
	if !ok {
		return nil, board_errors.ErrNotFound
	}

	f, err := os.OpenInRoot(d.root, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, board_errors.ErrNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, board_errors.ErrNotFound
	}

	return &Object{Body: f, Size: info.Size(), ContentType: contentTypeFor(key)}, nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
