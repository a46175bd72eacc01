package utils

import "testing"

func TestDeriveSeed(t *testing.T) {
	if DeriveSeed(42, 1) != DeriveSeed(42, 1) {
		t.Error("DeriveSeed must be deterministic")
	}
	if DeriveSeed(42, 1) == DeriveSeed(42, 2) {
		t.Error("different connections should get different seeds")
	}
	if DeriveSeed(1, 7) == DeriveSeed(2, 7) {
		t.Error("different master seeds should give different seeds")
	}
}

func TestNewRand_Independent(t *testing.T) {
	a, b := NewRand(9), NewRand(9)
	for i := 0; i < 10; i++ {
		if a.Int63() != b.Int63() {
			t.Fatal("generators with equal seeds diverged")
		}
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if len(id) != 16 {
		t.Errorf("len(GenerateID()) = %d, want 16", len(id))
	}
	if id == GenerateID() {
		t.Error("GenerateID returned the same value twice")
	}
}
