package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/systems"
)

type fakeSource struct {
	tick   int32
	cells  map[components.Position]systems.Content
	agents []game.AgentView
}

func (f *fakeSource) Tick() int32 { return f.tick }
func (f *fakeSource) Size() int   { return 4 }

func (f *fakeSource) Cell(x, y int) game.CellView {
	return game.CellView{Content: f.cells[components.Position{X: x, Y: y}]}
}

func (f *fakeSource) Agents() []game.AgentView { return f.agents }

func (f *fakeSource) Counts() (prey, pred int) {
	for _, a := range f.agents {
		if a.Kind == components.KindPrey {
			prey++
		} else {
			pred++
		}
	}
	return prey, pred
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		cells: map[components.Position]systems.Content{
			{X: 1, Y: 2}: systems.ContentFood,
			{X: 3, Y: 0}: systems.ContentObstacle,
		},
		agents: []game.AgentView{
			{ID: 1, Kind: components.KindPredator, X: 0, Y: 0, Energy: 50, MaxEnergy: 100},
			{ID: 2, Kind: components.KindPrey, X: 2, Y: 2, Energy: 10, MaxEnergy: 100},
		},
	}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(newFakeSource())

	if f.Type != "frame" || f.Size != 4 || f.Prey != 1 || f.Predators != 1 {
		t.Errorf("frame header = %+v", f)
	}
	if len(f.Food) != 1 || f.Food[0] != (components.Position{X: 1, Y: 2}) {
		t.Errorf("food = %v", f.Food)
	}
	if len(f.Obstacles) != 1 || f.Obstacles[0] != (components.Position{X: 3, Y: 0}) {
		t.Errorf("obstacles = %v", f.Obstacles)
	}
	if len(f.Agents) != 2 {
		t.Errorf("agents = %v", f.Agents)
	}
}

func dial(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Hello
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("reading hello: %v", err)
	}
	if hello.Type != "config" || hello.Size != 4 {
		t.Fatalf("hello = %+v", hello)
	}
	return conn
}

func TestHubPublish(t *testing.T) {
	h := NewHub(4, 2)
	conn := dial(t, h)
	src := newFakeSource()

	src.tick = 3
	if h.Publish(src) {
		t.Error("published off-interval tick")
	}

	src.tick = 4
	if !h.Publish(src) {
		t.Fatal("frame not published on interval tick")
	}

	var raw map[string]any
	if err := conn.ReadJSON(&raw); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if raw["type"] != "frame" || raw["tick"] != float64(4) {
		t.Errorf("frame = %v", raw)
	}
	agents, _ := raw["agents"].([]any)
	if len(agents) != 2 {
		t.Fatalf("agents = %v", raw["agents"])
	}
	if first, _ := agents[0].(map[string]any); first["kind"] != "predator" {
		t.Errorf("kind encoded as %v, want \"predator\"", first["kind"])
	}
}

func TestHubIgnoresViewerMessages(t *testing.T) {
	h := NewHub(4, 1)
	conn := dial(t, h)

	if err := conn.WriteJSON(map[string]any{"type": "add_agent", "x": 1, "y": 1}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	src := newFakeSource()
	h.Publish(src)
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if len(f.Agents) != 2 {
		t.Fatalf("viewer message changed frame: %d agents", len(f.Agents))
	}
	if f.Agents[0].Kind != components.KindPredator || f.Agents[1].Kind != components.KindPrey {
		t.Errorf("decoded kinds = %v, %v", f.Agents[0].Kind, f.Agents[1].Kind)
	}
}

func TestPublishWithoutViewers(t *testing.T) {
	h := NewHub(4, 1)
	if h.Publish(newFakeSource()) {
		t.Error("published with no viewers")
	}
}

func TestStalledViewerDropped(t *testing.T) {
	h := NewHub(4, 1)
	h.writeWait = 50 * time.Millisecond
	dial(t, h) // never reads after the hello

	payload := strings.Repeat("x", 1<<20)
	for i := 0; i < 128 && h.Clients() > 0; i++ {
		h.Broadcast(payload)
	}
	if n := h.Clients(); n != 0 {
		t.Fatalf("stalled viewer still connected (%d clients)", n)
	}
}
