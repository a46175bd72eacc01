package storage

import (
	"encoding/json"
	"fmt"
)

// Collection - именованная корзина хранения со своим форматом и расширением.
// Набор закрыт: реализовать интерфейс можно только внутри пакета.
type Collection interface {
	Name() string
	Extension() string
	Encode(data any) ([]byte, error)
	Decode(raw []byte) (any, error)

	sealed()
}

var (
	// Scenes - текстовые сцены (.txt), данные - string
	Scenes Collection = sceneCollection{}

	// Trajectories - траектории в JSON (.json), данные - любое JSON-значение
	Trajectories Collection = trajectoryCollection{}
)

// Collections возвращает все зарегистрированные коллекции
func Collections() []Collection {
	return []Collection{Scenes, Trajectories}
}

// Lookup находит коллекцию по имени из внешнего мира
func Lookup(name string) (Collection, error) {
	for _, c := range Collections() {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// DefaultName - имя записи, если вызывающий его не указал.
// Индекс фиксированный, уникальность не гарантируется.
func DefaultName(c Collection) string {
	return fmt.Sprintf("%s-sample-%d.%s", c.Name(), placeholderIndex, c.Extension())
}

const placeholderIndex = 1337

type sceneCollection struct{}

func (sceneCollection) Name() string      { return "scenes" }
func (sceneCollection) Extension() string { return "txt" }
func (sceneCollection) sealed()           {}

func (sceneCollection) Encode(data any) ([]byte, error) {
	switch v := data.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}
	return nil, fmt.Errorf("scenes: expected text, got %T", data)
}

func (sceneCollection) Decode(raw []byte) (any, error) {
	return string(raw), nil
}

type trajectoryCollection struct{}

func (trajectoryCollection) Name() string      { return "trajectories" }
func (trajectoryCollection) Extension() string { return "json" }
func (trajectoryCollection) sealed()           {}

func (trajectoryCollection) Encode(data any) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("trajectories: %w", err)
	}
	return b, nil
}

func (trajectoryCollection) Decode(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("trajectories: %w", err)
	}
	return v, nil
}
