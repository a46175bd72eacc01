package scene

import (
	"fmt"
	"strings"
)

var kindChars = map[CellKind]byte{
	Empty:   '.',
	Ally:    'A',
	Goal:    'G',
	Cover:   'C',
	Hostile: 'H',
}

var charKinds = map[byte]CellKind{
	'.': Empty,
	'A': Ally,
	'G': Goal,
	'C': Cover,
	'H': Hostile,
}

// Char возвращает символ клетки для текстовой сцены
func (k CellKind) Char() byte {
	if c, ok := kindChars[k]; ok {
		return c
	}
	return '?'
}

// KindFromChar - обратное преобразование символа в тип клетки
func KindFromChar(c byte) (CellKind, bool) {
	kind, ok := charKinds[c]
	return kind, ok
}

// Render превращает карту в текст: Height строк по Width символов, каждая с '\n'.
// Хранение по столбцам, вывод по строкам - это поворот на 90° с отражением,
// то есть карта так, как ее видит игрок.
func Render(m *GridMap) string {
	var sb strings.Builder
	sb.Grow((m.Width() + 1) * m.Height())

	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			sb.WriteByte(m.Get(x, y).Char())
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Parse восстанавливает карту из текста Render.
// Допускает отсутствие последнего '\n' и окончания строк "\r\n".
func Parse(text string) (*GridMap, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, fmt.Errorf("%w: empty scene", ErrMalformedScene)
	}

	lines := strings.Split(text, "\n")
	width := len(lines[0])

	m, err := NewGridMap(width, len(lines))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScene, err)
	}

	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("%w: line %d has %d cells, expected %d",
				ErrMalformedScene, y+1, len(line), width)
		}
		for x := 0; x < len(line); x++ {
			kind, ok := KindFromChar(line[x])
			if !ok {
				return nil, fmt.Errorf("%w: unexpected %q at line %d, column %d",
					ErrMalformedScene, line[x], y+1, x+1)
			}
			m.cells[x][y] = kind
		}
	}

	return m, nil
}
