package api

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// Route - логический адрес входящего сообщения (путь страницы клиента)
type Route string

const (
	RouteCartographer Route = "/cartographer"
	RouteControlRoom  Route = "/control-room"
)

// Ключи действий внутри /cartographer
const (
	KeyAutoScene = "auto-scene"
	KeySaveScene = "save-scene"
	KeyLoadScene = "load-scene"
)

// Статусы ответов
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// InboundMessage это конверт любого сообщения от клиента.
// Сообщение без Route молча отбрасывается.
type InboundMessage struct {
	// Route путь страницы, с которой пришло сообщение ("/cartographer").
	Route Route `json:"route"`

	// Data JSON-объект, структура зависит от Route.
	Data json.RawMessage `json:"data"`
}

// CartographerRequest - данные для /cartographer. Ожидается ровно одно действие.
type CartographerRequest struct {
	AutoScene *AutoScenePayload `json:"auto-scene,omitempty"`
	SaveScene *SaveScenePayload `json:"save-scene,omitempty"`
	LoadScene *LoadScenePayload `json:"load-scene,omitempty"`
}

// FlexInt принимает как число, так и строку с числом ("4").
// Поля формы браузер присылает строками. Дробь допустима, если она целая (1.0).
type FlexInt int

// flexIntPattern - целое или целое с нулевой дробной частью, с пробелами по краям
const flexIntPattern = `^\s*-?[0-9]+(\.0*)?\s*$`

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*f = FlexInt(n)
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
		return fmt.Errorf("value %s is not an integer", string(b))
	}
	*f = FlexInt(v)
	return nil
}

// JSONSchema описывает FlexInt для tools/protocolschema
func (FlexInt) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string", Pattern: flexIntPattern},
		},
	}
}

// AutoScenePayload параметры автогенерации сцены.
// Отсутствующие поля получают значения по умолчанию: 1 каждого типа на карте 6x4.
type AutoScenePayload struct {
	Allies   FlexInt `json:"allies" jsonschema:"minimum=0"`
	Goals    FlexInt `json:"goals" jsonschema:"minimum=0"`
	Covers   FlexInt `json:"covers" jsonschema:"minimum=0"`
	Hostiles FlexInt `json:"hostiles" jsonschema:"minimum=0"`
	Cols     FlexInt `json:"ncols" jsonschema:"minimum=1"`
	Rows     FlexInt `json:"nrows" jsonschema:"minimum=1"`

	// CellSize используется только клиентом для отрисовки
	CellSize FlexInt `json:"cell_size,omitempty"`

	// Seed если задан, сцена воспроизводима
	Seed *int64 `json:"seed,omitempty"`
}

// DefaultAutoScene возвращает параметры по умолчанию
func DefaultAutoScene() AutoScenePayload {
	return AutoScenePayload{Allies: 1, Goals: 1, Covers: 1, Hostiles: 1, Cols: 6, Rows: 4, CellSize: 50}
}

func (p *AutoScenePayload) UnmarshalJSON(b []byte) error {
	type plain AutoScenePayload
	v := plain(DefaultAutoScene())
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = AutoScenePayload(v)
	return nil
}

// SaveScenePayload сохраняет текстовую сцену. Name можно не указывать.
type SaveScenePayload struct {
	Name string `json:"name,omitempty"`
	Data string `json:"data"`
}

// LoadScenePayload загружает сохраненную сцену по имени
type LoadScenePayload struct {
	Name string `json:"name"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// SceneData - текст сцены, строки разделены '\n'
type SceneData struct {
	Data string `json:"data"`
}

// AutoSceneResponse ответ на auto-scene: {"auto-scene": {"data": "..."}}
type AutoSceneResponse struct {
	AutoScene SceneData `json:"auto-scene"`
}

// SavedRecord - результат сохранения
type SavedRecord struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

// SaveSceneResponse ответ на save-scene
type SaveSceneResponse struct {
	SaveScene SavedRecord `json:"save-scene"`
}

// LoadSceneResponse ответ на load-scene
type LoadSceneResponse struct {
	LoadScene SceneData `json:"load-scene"`
}

// StatusResponse - общий ответ со статусом (control-room и ошибки)
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Route   Route  `json:"route,omitempty"`
}

// ErrorResponse собирает ответ об ошибке
func ErrorResponse(route Route, err error) StatusResponse {
	return StatusResponse{Status: StatusError, Message: err.Error(), Route: route}
}
