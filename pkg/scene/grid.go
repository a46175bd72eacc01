package scene

import (
	"fmt"
)

// CellKind - тип содержимого одной клетки карты
type CellKind uint8

const (
	Empty CellKind = iota
	Ally
	Goal
	Cover
	Hostile
)

// PlacementOrder - порядок расстановки. Влияет только на то, кто первым займет клетки.
var PlacementOrder = [...]CellKind{Ally, Goal, Cover, Hostile}

var kindNames = map[CellKind]string{
	Empty:   "EMPTY",
	Ally:    "ALLY",
	Goal:    "GOAL",
	Cover:   "COVER",
	Hostile: "HOSTILE",
}

// String реализует интерфейс Stringer (для логов)
func (k CellKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Position - координата клетки. X - столбец, Y - строка.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shift возвращает новую позицию со смещением
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ChebyshevTo возвращает расстояние Чебышёва (ход короля)
func (p Position) ChebyshevTo(other Position) int {
	return max(abs(p.X-other.X), abs(p.Y-other.Y))
}

// IsAdjacent возвращает true, если цель в соседней клетке (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	return p.ChebyshevTo(other) == 1
}

// GridMap - сетка width x height фиксированного размера.
// Хранится по столбцам: cells[x][y].
type GridMap struct {
	width  int
	height int
	cells  [][]CellKind
}

// NewGridMap создает пустую карту. Размеры после создания не меняются,
// сторона не больше MaxDimension.
func NewGridMap(width, height int) (*GridMap, error) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidRequest, width, height)
	}

	cells := make([][]CellKind, width)
	for x := range cells {
		cells[x] = make([]CellKind, height)
	}

	return &GridMap{width: width, height: height, cells: cells}, nil
}

func (m *GridMap) Width() int  { return m.width }
func (m *GridMap) Height() int { return m.height }

// Capacity - общее количество клеток
func (m *GridMap) Capacity() int { return m.width * m.height }

func (m *GridMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Get возвращает тип клетки. Клетки за границей считаются пустыми.
func (m *GridMap) Get(x, y int) CellKind {
	if !m.InBounds(x, y) {
		return Empty
	}
	return m.cells[x][y]
}

// TrySet записывает kind, только если клетка в границах и пуста.
// Занятые и внешние клетки - штатная ситуация, поэтому просто false.
func (m *GridMap) TrySet(x, y int, kind CellKind) bool {
	if !m.InBounds(x, y) || m.cells[x][y] != Empty {
		return false
	}
	m.cells[x][y] = kind
	return true
}

// Count считает клетки заданного типа
func (m *GridMap) Count(kind CellKind) int {
	n := 0
	for x := range m.cells {
		for _, c := range m.cells[x] {
			if c == kind {
				n++
			}
		}
	}
	return n
}

// Counts возвращает количество клеток каждого типа (включая Empty)
func (m *GridMap) Counts() map[CellKind]int {
	counts := make(map[CellKind]int, len(kindNames))
	for x := range m.cells {
		for _, c := range m.cells[x] {
			counts[c]++
		}
	}
	return counts
}

// Equal сравнивает размеры и содержимое двух карт
func (m *GridMap) Equal(other *GridMap) bool {
	if other == nil || m.width != other.width || m.height != other.height {
		return false
	}
	for x := range m.cells {
		for y, c := range m.cells[x] {
			if other.cells[x][y] != c {
				return false
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
