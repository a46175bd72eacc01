package scene

import (
	"fmt"
	"math"
	"math/rand"
)

// Константы генерации
const (
	// MaxClusterSize - максимальный размер кластера укрытий
	MaxClusterSize = 4

	// MaxOffsetRetries - сколько раз перебрасываем смещение соседа, если оно ушло за карту
	MaxOffsetRetries = 64

	// DefaultAttemptsPerCell - лимит попыток на один тип объекта, умножается на площадь карты
	DefaultAttemptsPerCell = 1000

	// MaxDimension - жесткий предел стороны карты. Площадь MaxDimension^2 не переполняет int.
	MaxDimension = 1024
)

// neighborOffsets - 8-связность, без нулевого смещения
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// PlacementRequest - сколько объектов каждого типа поставить на карту заданного размера
type PlacementRequest struct {
	Width    int
	Height   int
	Allies   int
	Goals    int
	Covers   int
	Hostiles int
}

// Count возвращает запрошенное количество для типа клетки
func (r PlacementRequest) Count(kind CellKind) int {
	switch kind {
	case Ally:
		return r.Allies
	case Goal:
		return r.Goals
	case Cover:
		return r.Covers
	case Hostile:
		return r.Hostiles
	}
	return 0
}

// Total - сумма всех объектов
func (r PlacementRequest) Total() int {
	return r.Allies + r.Goals + r.Covers + r.Hostiles
}

// Validate проверяет запрос до создания карты.
// На карте должна остаться хотя бы одна пустая клетка.
func (r PlacementRequest) Validate() error {
	return r.validateWithin(MaxDimension)
}

// validateWithin - Validate с пределом стороны limit (не больше MaxDimension).
// Стороны и счетчики проверяются до умножения и сложения.
func (r PlacementRequest) validateWithin(limit int) error {
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("%w: grid size %dx%d", ErrInvalidRequest, r.Width, r.Height)
	}
	if r.Width > limit || r.Height > limit {
		return fmt.Errorf("%w: grid size %dx%d exceeds %dx%d",
			ErrInvalidRequest, r.Width, r.Height, limit, limit)
	}

	capacity := r.Width * r.Height
	for _, kind := range PlacementOrder {
		n := r.Count(kind)
		if n < 0 {
			return fmt.Errorf("%w: negative %s count %d", ErrInvalidRequest, kind, n)
		}
		if n >= capacity {
			return fmt.Errorf("%w: %d %s do not fit into %dx%d grid",
				ErrInvalidRequest, n, kind, r.Width, r.Height)
		}
	}
	if r.Total() >= capacity {
		return fmt.Errorf("%w: %d objects do not fit into %dx%d grid",
			ErrInvalidRequest, r.Total(), r.Width, r.Height)
	}
	return nil
}

// AdjacencyMode - от какой клетки считается следующий член кластера
type AdjacencyMode uint8

const (
	// Chained - сосед последней добавленной клетки
	Chained AdjacencyMode = iota
	// Hub - сосед первой клетки
	Hub
)

// Cluster - упорядоченный набор координат-кандидатов
type Cluster struct {
	Mode  AdjacencyMode
	Cells []Position
}

// Reference возвращает опорную клетку для i-го члена (i >= 1)
func (c Cluster) Reference(i int) Position {
	if c.Mode == Hub {
		return c.Cells[0]
	}
	return c.Cells[i-1]
}

// CommitFunc вызывается после каждой попытки кластера с реально записанными клетками
type CommitFunc func(kind CellKind, cluster Cluster, committed []Position)

// Placer расставляет объекты на карте. Источник случайности передается снаружи,
// один Placer не должен использоваться из нескольких горутин.
type Placer struct {
	rng             *rand.Rand
	attemptsPerCell int
	maxDimension    int
	onCommit        CommitFunc
}

// PlacerOption настраивает Placer
type PlacerOption func(*Placer)

// WithAttemptsPerCell задает лимит попыток (на тип объекта, на клетку площади)
func WithAttemptsPerCell(n int) PlacerOption {
	return func(p *Placer) {
		if n > 0 {
			p.attemptsPerCell = n
		}
	}
}

// WithMaxDimension ограничивает сторону карты. Значения вне (0, MaxDimension] игнорируются.
func WithMaxDimension(n int) PlacerOption {
	return func(p *Placer) {
		if n > 0 && n <= MaxDimension {
			p.maxDimension = n
		}
	}
}

// WithCommitHook подписывает на результаты каждой попытки
func WithCommitHook(fn CommitFunc) PlacerOption {
	return func(p *Placer) {
		p.onCommit = fn
	}
}

func NewPlacer(rng *rand.Rand, opts ...PlacerOption) *Placer {
	p := &Placer{
		rng:             rng,
		attemptsPerCell: DefaultAttemptsPerCell,
		maxDimension:    MaxDimension,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlaceAll создает карту и заполняет ее по запросу.
// Проходимость карты не проверяется.
func (p *Placer) PlaceAll(req PlacementRequest) (*GridMap, error) {
	if err := req.validateWithin(p.maxDimension); err != nil {
		return nil, err
	}

	m, err := NewGridMap(req.Width, req.Height)
	if err != nil {
		return nil, err
	}

	for _, kind := range PlacementOrder {
		if err := p.fill(m, kind, req.Count(kind)); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// fill ставит total объектов типа kind. Члены кластера, попавшие на занятые клетки,
// отбрасываются; недостачу добирает следующая итерация.
func (p *Placer) fill(m *GridMap, kind CellKind, total int) error {
	maxAttempts := math.MaxInt
	if p.attemptsPerCell <= math.MaxInt/m.Capacity() {
		maxAttempts = p.attemptsPerCell * m.Capacity()
	}
	added := 0

	for attempt := 0; added < total; attempt++ {
		if attempt >= maxAttempts {
			return fmt.Errorf("%w: placed %d of %d %s after %d attempts",
				ErrPlacementExhausted, added, total, kind, attempt)
		}

		size, mode := 1, Chained
		if kind == Cover {
			size, mode = min(MaxClusterSize, total-added), Hub
		}

		cluster := p.BuildCluster(m.Width(), m.Height(), size, mode)

		var committed []Position
		for _, pos := range cluster.Cells {
			if added == total {
				break
			}
			if m.TrySet(pos.X, pos.Y, kind) {
				committed = append(committed, pos)
				added++
			}
		}

		if p.onCommit != nil {
			p.onCommit(kind, cluster, committed)
		}
	}

	return nil
}

// BuildCluster строит кластер-кандидат размера size внутри width x height.
// Карту не смотрит: коллизии решаются при записи.
// Если сосед не находится за MaxOffsetRetries бросков, кластер возвращается короче.
func (p *Placer) BuildCluster(width, height, size int, mode AdjacencyMode) Cluster {
	cluster := Cluster{Mode: mode, Cells: make([]Position, 0, size)}
	if size < 1 || width < 1 || height < 1 {
		return cluster
	}

	cluster.Cells = append(cluster.Cells, Position{X: p.rng.Intn(width), Y: p.rng.Intn(height)})

	for len(cluster.Cells) < size {
		ref := cluster.Reference(len(cluster.Cells))
		next, ok := p.randomNeighbor(ref, width, height)
		if !ok {
			break
		}
		cluster.Cells = append(cluster.Cells, next)
	}

	return cluster
}

func (p *Placer) randomNeighbor(ref Position, width, height int) (Position, bool) {
	for i := 0; i < MaxOffsetRetries; i++ {
		off := neighborOffsets[p.rng.Intn(len(neighborOffsets))]
		next := ref.Shift(off[0], off[1])
		if next.X >= 0 && next.X < width && next.Y >= 0 && next.Y < height {
			return next, true
		}
	}
	return Position{}, false
}
