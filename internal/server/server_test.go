package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

func quietLogger() *log.Entry {
	l := log.New()
	l.SetOutput(io.Discard)
	return log.NewEntry(l)
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(NewServer("", quietLogger()).Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Reply {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var r Reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("read: %v", err)
	}
	return r
}

func TestStreamImpulse(t *testing.T) {
	conn := dial(t)
	if err := conn.WriteJSON(Msg{Type: TypeStart, Preset: "impulse", Every: 5}); err != nil {
		t.Fatal(err)
	}

	r := read(t, conn)
	if r.Type != TypeStarted {
		t.Fatalf("first reply = %+v", r)
	}
	if len(r.Shape) != 1 || r.Shape[0] != 20 {
		t.Errorf("shape = %v", r.Shape)
	}

	var steps []int
	for {
		r = read(t, conn)
		if r.Type != TypeFrame {
			break
		}
		steps = append(steps, r.Step)
		if len(r.Values) != 20 {
			t.Errorf("frame %d has %d values", r.Step, len(r.Values))
		}
		sum := 0.0
		for _, v := range r.Values {
			sum += v
		}
		if d := sum - 100; d > 1e-9 || d < -1e-9 {
			t.Errorf("frame %d sum = %v", r.Step, sum)
		}
	}

	want := []int{5, 10, 15, 20}
	if len(steps) != len(want) {
		t.Fatalf("frame steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("frame steps = %v, want %v", steps, want)
			break
		}
	}

	if r.Type != TypeDone {
		t.Fatalf("last reply = %+v", r)
	}
	if r.Step != 20 || r.Time != 10 {
		t.Errorf("done at step %d time %v", r.Step, r.Time)
	}
	if _, ok := r.Metrics["conservation_drift"]; !ok {
		t.Errorf("done metrics = %v", r.Metrics)
	}
}

func TestFinalFrameAlwaysSent(t *testing.T) {
	conn := dial(t)
	conn.WriteJSON(Msg{Type: TypeStart, Preset: "impulse", Every: 7})
	read(t, conn)

	var last Reply
	for {
		r := read(t, conn)
		if r.Type != TypeFrame {
			break
		}
		last = r
	}
	if last.Step != 20 || last.Time != 10 {
		t.Errorf("last frame at step %d time %v", last.Step, last.Time)
	}
}

func TestUnknownPresetAndType(t *testing.T) {
	conn := dial(t)

	conn.WriteJSON(Msg{Type: TypeStart, Preset: "nope"})
	r := read(t, conn)
	if r.Type != TypeError || !strings.Contains(r.Content, "nope") {
		t.Errorf("reply = %+v", r)
	}

	conn.WriteJSON(Msg{Type: "pause"})
	r = read(t, conn)
	if r.Type != TypeError {
		t.Errorf("reply = %+v", r)
	}
}

func TestStop(t *testing.T) {
	conn := dial(t)
	// The rod preset takes thousands of steps.
	conn.WriteJSON(Msg{Type: TypeStart, Preset: "rod", Every: 1})
	if r := read(t, conn); r.Type != TypeStarted {
		t.Fatalf("reply = %+v", r)
	}
	conn.WriteJSON(Msg{Type: TypeStop})

	for {
		r := read(t, conn)
		if r.Type == TypeStopped {
			return
		}
		if r.Type != TypeFrame {
			t.Fatalf("unexpected reply %+v", r)
		}
	}
}

func TestPresets(t *testing.T) {
	ts := httptest.NewServer(NewServer("", quietLogger()).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presets")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "impulse,plate,point,rod" {
		t.Errorf("presets = %v", names)
	}
}
