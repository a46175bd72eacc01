package scene

import (
	"errors"
	"testing"
)

func TestGridMap_TrySet(t *testing.T) {
	m, err := NewGridMap(4, 3)
	if err != nil {
		t.Fatal(err)
	}

	if !m.TrySet(1, 2, Cover) {
		t.Fatal("TrySet on empty cell should succeed")
	}
	if m.TrySet(1, 2, Hostile) {
		t.Error("TrySet on occupied cell should fail")
	}
	if got := m.Get(1, 2); got != Cover {
		t.Errorf("Get(1, 2) = %s, want COVER", got)
	}

	// Выход за границы - не паника, а false
	for _, pos := range []Position{{-1, 0}, {4, 0}, {0, 3}, {0, -1}} {
		if m.TrySet(pos.X, pos.Y, Ally) {
			t.Errorf("TrySet(%d, %d) out of bounds should fail", pos.X, pos.Y)
		}
		if m.Get(pos.X, pos.Y) != Empty {
			t.Errorf("Get(%d, %d) out of bounds should be Empty", pos.X, pos.Y)
		}
	}

	if m.Count(Empty) != 11 || m.Count(Cover) != 1 {
		t.Errorf("unexpected counts: %v", m.Counts())
	}
}

func TestNewGridMap_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {3, -1}, {MaxDimension + 1, 2}, {2, MaxDimension + 1}} {
		if _, err := NewGridMap(size[0], size[1]); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("NewGridMap(%d, %d) error = %v", size[0], size[1], err)
		}
	}
}

func TestPosition_ChebyshevTo(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
		adj  bool
	}{
		{Position{0, 0}, Position{1, 1}, 1, true},
		{Position{2, 2}, Position{2, 3}, 1, true},
		{Position{2, 2}, Position{2, 2}, 0, false},
		{Position{0, 0}, Position{2, 1}, 2, false},
	}

	for _, tt := range tests {
		if got := tt.a.ChebyshevTo(tt.b); got != tt.want {
			t.Errorf("%v.ChebyshevTo(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if got := tt.a.IsAdjacent(tt.b); got != tt.adj {
			t.Errorf("%v.IsAdjacent(%v) = %v, want %v", tt.a, tt.b, got, tt.adj)
		}
	}
}

func TestCellKind_String(t *testing.T) {
	if Hostile.String() != "HOSTILE" || CellKind(99).String() != "UNKNOWN" {
		t.Error("unexpected CellKind names")
	}
}
