package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"maneuver-server/pkg/api"
	"maneuver-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Session - состояние одного соединения, которое видят хендлеры
type Session struct {
	ID  string
	Ctx context.Context

	// Rng - генератор соединения. Используется только из его readPump.
	Rng *rand.Rand
}

// HandlerFunc - контракт хендлера маршрута. Возвращает ответ для клиента.
type HandlerFunc func(s *Session, data json.RawMessage) (any, error)

// TypedHandlerFunc - "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(s *Session, payload T) (any, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя Unmarshal и Validate.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(s *Session, raw json.RawMessage) (any, error) {
		var payload T

		// 1. Распаковка JSON (отсутствующие data оставляют T нулевым)
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, fmt.Errorf("invalid payload format: %w", err)
			}
		}

		// 2. Автоматическая валидация
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Вызов чистой логики
		return handler(s, payload)
	}
}

// Router сопоставляет маршрут входящего сообщения с хендлером.
// Набор маршрутов фиксируется при создании и дальше только читается.
type Router struct {
	routes map[api.Route]HandlerFunc
}

func NewRouter(h *Handlers) *Router {
	return &Router{
		routes: map[api.Route]HandlerFunc{
			api.RouteCartographer: WithPayload(h.Cartographer),
			api.RouteControlRoom:  WithPayload(h.ControlRoom),
		},
	}
}

// Dispatch разбирает сообщение и вызывает хендлер.
// ok == false - ответа не будет (нет ключа route).
// Любая другая ошибка превращается в ответ со статусом error.
func (r *Router) Dispatch(s *Session, msg []byte) (resp any, ok bool) {
	log := logger.Log.WithField("conn_id", s.ID)

	var in api.InboundMessage
	if err := json.Unmarshal(msg, &in); err != nil {
		log.WithError(err).Warn("malformed message")
		return api.ErrorResponse("", fmt.Errorf("invalid message: %w", err)), true
	}

	if in.Route == "" {
		log.Debug("message without route dropped")
		return nil, false
	}

	log = log.WithField("route", in.Route)

	handler, found := r.routes[in.Route]
	if !found {
		log.Warn("unknown route")
		return api.ErrorResponse(in.Route, fmt.Errorf("unknown route %q", in.Route)), true
	}

	resp, err := handler(s, in.Data)
	if err != nil {
		log.WithError(err).Warn("handler failed")
		return api.ErrorResponse(in.Route, err), true
	}

	log.WithFields(logrus.Fields{"response": fmt.Sprintf("%T", resp)}).Debug("message handled")
	return resp, true
}
