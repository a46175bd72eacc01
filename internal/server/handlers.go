package server

import (
	"encoding/json"
	"fmt"

	"maneuver-server/internal/infrastructure/storage"
	"maneuver-server/pkg/api"
	"maneuver-server/pkg/logger"
	"maneuver-server/pkg/scene"
	"maneuver-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Handlers - обработчики маршрутов. Store - единственный общий для соединений объект.
type Handlers struct {
	Store           storage.DataStore
	AttemptsPerCell int
	MaxDimension    int
}

// Cartographer обрабатывает /cartographer: генерация, сохранение и загрузка сцен
func (h *Handlers) Cartographer(s *Session, req api.CartographerRequest) (any, error) {
	switch {
	case req.AutoScene != nil:
		return h.autoScene(s, *req.AutoScene)
	case req.SaveScene != nil:
		return h.saveScene(s, *req.SaveScene)
	default:
		return h.loadScene(s, *req.LoadScene)
	}
}

func (h *Handlers) autoScene(s *Session, p api.AutoScenePayload) (any, error) {
	rng := s.Rng
	if p.Seed != nil {
		rng = utils.NewRand(*p.Seed)
	}

	req := p.PlacementRequest()
	log := logger.Log.WithFields(logrus.Fields{
		"conn_id": s.ID,
		"request": fmt.Sprintf("%+v", req),
	})

	opts := []scene.PlacerOption{
		scene.WithAttemptsPerCell(h.AttemptsPerCell),
		scene.WithMaxDimension(h.MaxDimension),
	}
	if logger.Log.IsLevelEnabled(logrus.TraceLevel) {
		opts = append(opts, scene.WithCommitHook(func(kind scene.CellKind, c scene.Cluster, committed []scene.Position) {
			log.WithFields(logrus.Fields{
				"kind":      kind,
				"cluster":   c.Cells,
				"committed": committed,
			}).Trace("cluster placed")
		}))
	}

	m, err := scene.NewPlacer(rng, opts...).PlaceAll(req)
	if err != nil {
		return nil, err
	}

	text := scene.Render(m)
	log.Info("=== autogenerating scene ===")
	log.Debugf("scene:\n%s", text)

	return api.AutoSceneResponse{AutoScene: api.SceneData{Data: text}}, nil
}

func (h *Handlers) saveScene(s *Session, p api.SaveScenePayload) (any, error) {
	// Сохраняем только то, что можно прочитать обратно
	if _, err := scene.Parse(p.Data); err != nil {
		return nil, err
	}

	name, err := h.Store.Save(s.Ctx, storage.Scenes, p.Data, p.Name)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"conn_id":    s.ID,
		"collection": storage.Scenes.Name(),
		"name":       name,
	}).Info("scene saved")

	return api.SaveSceneResponse{SaveScene: api.SavedRecord{Status: api.StatusSuccess, Name: name}}, nil
}

func (h *Handlers) loadScene(s *Session, p api.LoadScenePayload) (any, error) {
	data, err := h.Store.Load(s.Ctx, storage.Scenes, p.Name)
	if err != nil {
		return nil, err
	}

	text, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("scene %s is not text", p.Name)
	}

	return api.LoadSceneResponse{LoadScene: api.SceneData{Data: text}}, nil
}

// ControlRoom принимает результаты прогона и подтверждает сохранение.
// TODO: писать payload в storage.Trajectories, когда клиент начнет присылать имя прогона.
func (h *Handlers) ControlRoom(s *Session, data map[string]any) (any, error) {
	if logger.Log.IsLevelEnabled(logrus.DebugLevel) {
		pretty, _ := json.MarshalIndent(data, "", "    ")
		logger.Log.WithField("conn_id", s.ID).Debugf("control room payload:\n%s", pretty)
	}

	return api.StatusResponse{Status: api.StatusSuccess, Message: "successfully saved"}, nil
}
