package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/fnv"
	mrand "math/rand"
)

// GenerateID создает короткий уникальный ID для соединений и логов
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// DeriveSeed смешивает мастер-сид с номером соединения.
// Одинаковые (master, seq) всегда дают одинаковый сид.
func DeriveSeed(master int64, seq uint64) int64 {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(master >> (8 * i))
		buf[8+i] = byte(seq >> (8 * i))
	}
	h.Write(buf[:])
	return int64(h.Sum64())
}

// NewRand создает независимый генератор. Глобальный rand не трогаем.
func NewRand(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}
