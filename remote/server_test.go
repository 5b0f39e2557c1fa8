package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeController applies mutations synchronously, the contract real
// controllers honor with a barrier against the engine goroutine.
type fakeController struct {
	name    string
	bpm     int
	running bool
	port    int
}

func (f *fakeController) Status() Status {
	return Status{Name: f.name, Bpm: f.bpm, Running: f.running, HTTPPort: f.port}
}

func (f *fakeController) Start() { f.running = true }
func (f *fakeController) Stop()  { f.running = false }

func (f *fakeController) SetBpm(bpm int) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 400 {
		bpm = 400
	}
	f.bpm = bpm
}

func testServer() (*fakeController, http.Handler) {
	gin.SetMode(gin.TestMode)
	ctrl := &fakeController{name: "stix-test", bpm: 100, port: HTTPPort}
	s := NewServer(ctrl, HTTPPort)
	return ctrl, s.srv.Handler
}

func request(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) Status {
	t.Helper()
	var st Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("bad status body %q: %v", w.Body.String(), err)
	}
	return st
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad error body %q: %v", w.Body.String(), err)
	}
	return body["error"]
}

func TestStatusEndpoint(t *testing.T) {
	_, h := testServer()

	w := request(t, h, http.MethodGet, "/status", "")
	if want, got := http.StatusOK, w.Code; want != got {
		t.Fatalf("wrong code: want %d, got %d", want, got)
	}
	want := Status{Name: "stix-test", Bpm: 100, Running: false, HTTPPort: HTTPPort}
	if got := decodeStatus(t, w); want != got {
		t.Errorf("wrong status: want %+v, got %+v", want, got)
	}
}

func TestStartStopEndpoints(t *testing.T) {
	ctrl, h := testServer()

	w := request(t, h, http.MethodPost, "/start", "")
	if want, got := http.StatusOK, w.Code; want != got {
		t.Fatalf("wrong start code: want %d, got %d", want, got)
	}
	if st := decodeStatus(t, w); !st.Running {
		t.Errorf("start response not running: %+v", st)
	}
	if !ctrl.running {
		t.Error("start did not reach the controller")
	}

	w = request(t, h, http.MethodPost, "/stop", "")
	if want, got := http.StatusOK, w.Code; want != got {
		t.Fatalf("wrong stop code: want %d, got %d", want, got)
	}
	if st := decodeStatus(t, w); st.Running {
		t.Errorf("stop response still running: %+v", st)
	}
	if ctrl.running {
		t.Error("stop did not reach the controller")
	}
}

func TestTempoEndpoint(t *testing.T) {
	for _, tt := range []struct {
		body string
		bpm  int
	}{
		{`{"bpm": 180}`, 180},
		{`{"bpm": 90.7}`, 90},
		{`{"bpm": "120"}`, 120},
		{`{"bpm": "95.5"}`, 95},
		{`{"bpm": 1000}`, 400},
		{`{"bpm": 3}`, 20},
	} {
		ctrl, h := testServer()
		w := request(t, h, http.MethodPost, "/tempo", tt.body)
		if want, got := http.StatusOK, w.Code; want != got {
			t.Fatalf("%s: wrong code: want %d, got %d", tt.body, want, got)
		}
		if st := decodeStatus(t, w); st.Bpm != tt.bpm {
			t.Errorf("%s: wrong bpm in response: want %d, got %d", tt.body, tt.bpm, st.Bpm)
		}
		if ctrl.bpm != tt.bpm {
			t.Errorf("%s: wrong bpm on controller: want %d, got %d", tt.body, tt.bpm, ctrl.bpm)
		}
	}
}

func TestTempoErrors(t *testing.T) {
	for _, tt := range []struct {
		body string
		msg  string
	}{
		{`not json`, "Invalid JSON"},
		{``, "Invalid JSON"},
		{`{}`, "Missing bpm"},
		{`{"tempo": 120}`, "Missing bpm"},
		{`{"bpm": "fast"}`, "Invalid bpm"},
		{`{"bpm": null}`, "Invalid bpm"},
		{`{"bpm": [120]}`, "Invalid bpm"},
		{`{"bpm": true}`, "Invalid bpm"},
	} {
		ctrl, h := testServer()
		req := httptest.NewRequest(http.MethodPost, "/tempo", strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if want, got := http.StatusBadRequest, w.Code; want != got {
			t.Fatalf("%q: wrong code: want %d, got %d", tt.body, want, got)
		}
		if want, got := tt.msg, decodeError(t, w); want != got {
			t.Errorf("%q: wrong error: want %q, got %q", tt.body, want, got)
		}
		if ctrl.bpm != 100 {
			t.Errorf("%q: rejected request changed bpm to %d", tt.body, ctrl.bpm)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	_, h := testServer()

	w := request(t, h, http.MethodGet, "/nope", "")
	if want, got := http.StatusNotFound, w.Code; want != got {
		t.Fatalf("wrong code: want %d, got %d", want, got)
	}
	if want, got := "Not found", decodeError(t, w); want != got {
		t.Errorf("wrong error: want %q, got %q", want, got)
	}
}

func TestCoerceBpm(t *testing.T) {
	for _, tt := range []struct {
		in  any
		bpm int
		ok  bool
	}{
		{float64(120), 120, true},
		{float64(99.9), 99, true},
		{"140", 140, true},
		{" 85 ", 85, true},
		{"72.5", 72, true},
		{"fast", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{true, 0, false},
		{[]any{float64(1)}, 0, false},
	} {
		bpm, ok := coerceBpm(tt.in)
		if bpm != tt.bpm || ok != tt.ok {
			t.Errorf("coerceBpm(%#v): want (%d, %v), got (%d, %v)", tt.in, tt.bpm, tt.ok, bpm, ok)
		}
	}
}

func TestInstanceName(t *testing.T) {
	a, b := InstanceName(), InstanceName()
	if !strings.HasPrefix(a, "stix-") {
		t.Errorf("missing prefix: %q", a)
	}
	if want, got := len("stix-")+8, len(a); want != got {
		t.Errorf("wrong length: want %d, got %d (%q)", want, got, a)
	}
	if a == b {
		t.Errorf("names should be unique, got %q twice", a)
	}
}
