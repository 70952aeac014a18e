package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relnotes/pkg/domain/model"
)

// Local writes artifacts to the local filesystem
type Local struct {
	path string
}

// NewLocal creates a store writing to path. If path is an existing
// directory, the artifact name is appended.
func NewLocal(path string) *Local {
	return &Local{path: path}
}

func (s *Local) target(name string) string {
	if s.path == "" {
		return name
	}
	if info, err := os.Stat(s.path); err == nil && info.IsDir() {
		return filepath.Join(s.path, name)
	}
	return s.path
}

// Save writes data, replacing any existing file
func (s *Local) Save(ctx context.Context, name string, data []byte) (*model.Artifact, error) {
	dst := s.target(name)

	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
		}
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, goerr.Wrap(err, "failed to write artifact", goerr.V("path", dst))
	}

	ctxlog.From(ctx).Info("Saved artifact", "path", dst, "size_bytes", len(data))

	return &model.Artifact{Name: name, Location: dst, Size: len(data)}, nil
}
