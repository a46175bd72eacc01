package api

import (
	"errors"

	"maneuver-server/pkg/scene"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (r CartographerRequest) Validate() error {
	n := 0
	if r.AutoScene != nil {
		n++
	}
	if r.SaveScene != nil {
		n++
	}
	if r.LoadScene != nil {
		n++
	}

	switch {
	case n == 0:
		return errors.New("expected one of auto-scene, save-scene, load-scene")
	case n > 1:
		return errors.New("only one cartographer action per message")
	}

	if r.AutoScene != nil {
		return r.AutoScene.Validate()
	}
	if r.SaveScene != nil {
		return r.SaveScene.Validate()
	}
	return r.LoadScene.Validate()
}

// PlacementRequest переводит параметры формы в запрос генератора
func (p AutoScenePayload) PlacementRequest() scene.PlacementRequest {
	return scene.PlacementRequest{
		Width:    int(p.Cols),
		Height:   int(p.Rows),
		Allies:   int(p.Allies),
		Goals:    int(p.Goals),
		Covers:   int(p.Covers),
		Hostiles: int(p.Hostiles),
	}
}

func (p AutoScenePayload) Validate() error {
	return p.PlacementRequest().Validate()
}

func (p SaveScenePayload) Validate() error {
	if p.Data == "" {
		return errors.New("scene data is required")
	}
	return nil
}

func (p LoadScenePayload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
