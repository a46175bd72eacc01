package scene

import "errors"

var (
	// ErrInvalidRequest - запрос не помещается в карту или имеет некорректные размеры.
	// Проверяется до создания карты.
	ErrInvalidRequest = errors.New("invalid placement request")

	// ErrMalformedScene - текст сцены содержит неизвестные символы или рваные строки.
	ErrMalformedScene = errors.New("malformed scene")

	// ErrPlacementExhausted - генератор исчерпал лимит попыток.
	ErrPlacementExhausted = errors.New("placement attempts exhausted")
)
