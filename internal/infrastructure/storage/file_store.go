package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"maneuver-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// FileStore хранит записи файлами: <Root>/<collection>/<name>
type FileStore struct {
	Root string
}

// log - логгер хранилища
var log = logger.Component("storage")

func NewFileStore(root string) *FileStore {
	// Создаем корень если нет. Ошибку повторит первый Save.
	if err := os.MkdirAll(root, 0o755); err != nil {
		log.WithError(err).WithField("root", root).Warn("failed to create storage root")
	}
	return &FileStore{Root: root}
}

func (s *FileStore) path(c Collection, name string) string {
	return filepath.Join(s.Root, c.Name(), name)
}

func (s *FileStore) Save(ctx context.Context, c Collection, data any, name string) (string, error) {
	name, err := resolveName(c, name)
	if err != nil {
		return "", err
	}

	body, err := c.Encode(data)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, c.Name())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create collection dir: %w", err)
	}

	if err := os.WriteFile(s.path(c, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write %s/%s: %w", c.Name(), name, err)
	}

	log.WithFields(logrus.Fields{
		"collection": c.Name(),
		"name":       name,
		"bytes":      len(body),
	}).Debug("record saved")

	return name, nil
}

func (s *FileStore) Load(ctx context.Context, c Collection, name string) (any, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(s.path(c, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Оборачиваем оба: вызывающий может проверять и ErrNotFound, и os.ErrNotExist
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}

	return c.Decode(body)
}

func (s *FileStore) Close() error { return nil }
