package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"maneuver-server/internal/infrastructure/storage"
	"maneuver-server/internal/network"
	"maneuver-server/internal/version"
	"maneuver-server/pkg/logger"
	"maneuver-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Options - параметры сервера
type Options struct {
	Port            string
	Seed            int64
	AttemptsPerCell int
	MaxDimension    int
}

type Server struct {
	Router  *Router
	Clients *network.Registry
	Port    string

	seed    int64
	connSeq atomic.Uint64

	// ctx живет дольше запроса: после Upgrade контекст запроса уже не наш
	ctx    context.Context
	cancel context.CancelFunc
	http   *http.Server
}

func New(store storage.DataStore, opts Options) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Router: NewRouter(&Handlers{
			Store:           store,
			AttemptsPerCell: opts.AttemptsPerCell,
			MaxDimension:    opts.MaxDimension,
		}),
		Clients: network.NewRegistry(),
		Port:    opts.Port,
		seed:    opts.Seed,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.http = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler возвращает mux со всеми роутами
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	return mux
}

// Run запускает HTTP сервер. После Shutdown возвращает nil.
func (s *Server) Run() error {
	logger.Log.Infof("🗺️  Maneuver scene server running on :%s", s.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown перестает принимать соединения, отменяет контекст хендлеров
// и закрывает открытые websocket-соединения
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	err := s.http.Shutdown(ctx)
	if n := s.Clients.CloseAll(); n > 0 {
		logger.Log.Infof("Closed %d websocket connections", n)
	}
	return err
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	// Сид соединения зависит только от мастер-сида и порядкового номера
	seq := s.connSeq.Add(1)
	rng := utils.NewRand(utils.DeriveSeed(s.seed, seq))

	client := NewClient(s.ctx, utils.GenerateID(), conn, s.Router, rng)
	client.registry = s.Clients
	s.Clients.Register(client.ID, conn)
	logger.Log.WithFields(logrus.Fields{
		"conn_id": client.ID,
		"seq":     seq,
		"remote":  r.RemoteAddr,
		"active":  s.Clients.Count(),
	}).Info("Client connected")

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Current())
}
