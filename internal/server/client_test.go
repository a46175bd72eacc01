package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"maneuver-server/internal/infrastructure/storage"

	"github.com/gorilla/websocket"
)

func startTestServer(t *testing.T, store storage.DataStore) string {
	t.Helper()

	srv := New(store, Options{Port: "0", Seed: 5, AttemptsPerCell: 1000})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialURL(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	t.Cleanup(func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})
	return conn
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	return dialURL(t, startTestServer(t, storage.NewFileStore(t.TempDir())))
}

// blockingStore задерживает Save до закрытия release
type blockingStore struct {
	storage.DataStore
	entered chan struct{}
	release chan struct{}
}

func (s *blockingStore) Save(ctx context.Context, c storage.Collection, data any, name string) (string, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.DataStore.Save(ctx, c, data, name)
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}

	var frame map[string]any
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("failed to decode websocket payload: %v", err)
	}
	return frame
}

func sendText(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestWebSocket_AutoScene(t *testing.T) {
	conn := dialTestServer(t)

	// Сообщение без route игнорируется: первый ответ относится ко второму сообщению
	sendText(t, conn, `{"data": {"auto-scene": {}}}`)
	sendText(t, conn, `{"route": "/cartographer", "data": {"auto-scene": {"allies":"1","goals":"1","covers":"1","hostiles":"1","ncols":"6","nrows":"4"}}}`)

	frame := readFrame(t, conn)
	auto, ok := frame["auto-scene"].(map[string]any)
	if !ok {
		t.Fatalf("expected auto-scene frame, got %v", frame)
	}
	text, _ := auto["data"].(string)
	rows := sceneRows(t, text)
	if len(rows) != 4 || len(rows[0]) != 6 {
		t.Errorf("unexpected scene shape:\n%s", text)
	}
}

func TestWebSocket_RepliesInOrder(t *testing.T) {
	conn := dialTestServer(t)

	sendText(t, conn, `{"route": "/control-room", "data": {"run": 1}}`)
	sendText(t, conn, `{"route": "/nowhere", "data": {}}`)
	sendText(t, conn, `{"route": "/cartographer", "data": {"auto-scene": {}}}`)

	first := readFrame(t, conn)
	if first["status"] != "success" || first["message"] != "successfully saved" {
		t.Errorf("first frame = %v", first)
	}

	second := readFrame(t, conn)
	if second["status"] != "error" || second["route"] != "/nowhere" {
		t.Errorf("second frame = %v", second)
	}

	third := readFrame(t, conn)
	if _, ok := third["auto-scene"]; !ok {
		t.Errorf("third frame = %v", third)
	}
}

func TestWebSocket_ConnectionsAreIndependent(t *testing.T) {
	store := &blockingStore{
		DataStore: storage.NewFileStore(t.TempDir()),
		entered:   make(chan struct{}, 1),
		release:   make(chan struct{}),
	}
	var once sync.Once
	unblock := func() { once.Do(func() { close(store.release) }) }
	t.Cleanup(unblock)

	url := startTestServer(t, store)
	slow := dialURL(t, url)
	fast := dialURL(t, url)

	sendText(t, slow, `{"route": "/cartographer", "data": {"save-scene": {"name": "held.txt", "data": "A.\n.G\n"}}}`)
	select {
	case <-store.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("save handler was not reached")
	}
	// Встает в очередь за зависшим save
	sendText(t, slow, `{"route": "/cartographer", "data": {"auto-scene": {}}}`)

	sendText(t, fast, `{"route": "/cartographer", "data": {"auto-scene": {}}}`)
	if frame := readFrame(t, fast); frame["auto-scene"] == nil {
		t.Fatalf("second connection frame = %v, want auto-scene", frame)
	}

	unblock()

	first := readFrame(t, slow)
	saved, ok := first["save-scene"].(map[string]any)
	if !ok || saved["name"] != "held.txt" {
		t.Errorf("first frame after release = %v, want save-scene", first)
	}
	if second := readFrame(t, slow); second["auto-scene"] == nil {
		t.Errorf("second frame after release = %v, want auto-scene", second)
	}
}

func TestWebSocket_SaveThenLoad(t *testing.T) {
	conn := dialTestServer(t)
	text := ".A.\nC.H\n.G.\n"

	save, _ := json.Marshal(map[string]any{
		"route": "/cartographer",
		"data":  map[string]any{"save-scene": map[string]string{"data": text}},
	})
	sendText(t, conn, string(save))

	saved := readFrame(t, conn)["save-scene"].(map[string]any)
	name, _ := saved["name"].(string)
	if name != "scenes-sample-1337.txt" {
		t.Fatalf("saved name = %q", name)
	}

	sendText(t, conn, `{"route": "/cartographer", "data": {"load-scene": {"name": "`+name+`"}}}`)
	loaded := readFrame(t, conn)["load-scene"].(map[string]any)
	if loaded["data"] != text {
		t.Errorf("loaded = %q, want %q", loaded["data"], text)
	}
}

func TestHTTP_HealthAndVersion(t *testing.T) {
	srv := New(storage.NewFileStore(t.TempDir()), Options{Port: "0", AttemptsPerCell: 1000})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("/health = %d %q", resp.StatusCode, body)
	}

	resp, err = http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("/version is not JSON: %v", err)
	}
	if _, ok := info["buildId"]; !ok {
		t.Errorf("/version = %v", info)
	}
}
