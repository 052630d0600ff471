package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/Vedant817/flow-pilot/backend-go/internal/drive"
	"github.com/Vedant817/flow-pilot/backend-go/internal/storage"
)

// ErrNotFound is returned by a Source when the named file does not exist.
var ErrNotFound = errors.New("source file not found")

// Source opens seed files by name from a directory-like location.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

type LocalSource struct {
	Dir string
}

func (s LocalSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", name, err)
	}
	return f, nil
}

func (s LocalSource) String() string { return "local:" + s.Dir }

type ObjectStorageSource struct {
	Storage storage.ObjectStorage
	Prefix  string
}

func (s ObjectStorageSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.Prefix, name)
	objects, err := s.Storage.ListObjects(ctx, key)
	if err != nil {
		return nil, err
	}
	for _, obj := range objects {
		if obj.Key == key {
			return s.Storage.OpenObject(ctx, key)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

func (s ObjectStorageSource) String() string { return "s3:" + s.Prefix }

// DriveFiles is the part of the Drive client a DriveSource uses.
type DriveFiles interface {
	ListFiles(ctx context.Context, folderID string) ([]*drive.File, error)
	OpenFile(ctx context.Context, fileID string) (io.ReadCloser, error)
}

type DriveSource struct {
	Drive    DriveFiles
	FolderID string
}

func (s DriveSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	files, err := s.Drive.ListFiles(ctx, s.FolderID)
	if err != nil {
		return nil, err
	}

	var latest *drive.File
	for _, f := range files {
		if f.Name != name {
			continue
		}
		// RFC3339 timestamps order lexically
		if latest == nil || f.ModifiedTime > latest.ModifiedTime {
			latest = f
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: %s in drive folder %s", ErrNotFound, name, s.FolderID)
	}
	return s.Drive.OpenFile(ctx, latest.ID)
}

func (s DriveSource) String() string { return "drive:" + s.FolderID }
