package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidName       = errors.New("invalid record name")
)

// DataStore - сохранение и загрузка записей по (коллекция, имя).
// Одновременные записи одного ключа не синхронизируются.
type DataStore interface {
	// Save сохраняет data и возвращает итоговое имя записи.
	// Пустое name заменяется на DefaultName.
	Save(ctx context.Context, c Collection, data any, name string) (string, error)

	// Load читает запись. Отсутствующая запись - ErrNotFound.
	Load(ctx context.Context, c Collection, name string) (any, error)

	Close() error
}

// resolveName подставляет имя по умолчанию и отсекает попытки выйти из каталога
func resolveName(c Collection, name string) (string, error) {
	if name == "" {
		return DefaultName(c), nil
	}
	return name, validateName(name)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Драйверы хранилища
const (
	DriverFS       = "fs"
	DriverPostgres = "postgres"
)

// Open выбирает реализацию по имени драйвера
func Open(driver, root, dsn string) (DataStore, error) {
	switch driver {
	case "", DriverFS:
		return NewFileStore(root), nil
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres storage requires a DSN")
		}
		return OpenPostgres(dsn)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
