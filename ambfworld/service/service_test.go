package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smell-of-curry/ambf-world/ambfworld/world"
)

const validWorld = `enclosure size: {length: 4, width: 4, height: 2}
lights: []
cameras: [camera1]
max iterations: 10
gravity: {x: 0, y: 0, z: -9.81}
camera1:
  name: default_camera
  location: {x: 4, y: 0, z: 2}
  look at: {x: 0, y: 0, z: 0}
  up: {x: 0, y: 0, z: 1}
  clipping plane: {near: 0.01, far: 10}
  field view angle: 0.8
  parent: BODY CameraFrame
  stereo: {mode: Passive, eye separation: 0.02, focal length: 1}
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newService(fsys fstest.MapFS, key string) *Service {
	log := slog.New(slog.DiscardHandler)
	return New(log, world.NewLoader(log, world.Options{}), fsys, "worlds", key)
}

func do(t *testing.T, s *Service, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestListWorlds(t *testing.T) {
	s := newService(fstest.MapFS{
		"worlds/a.yaml": {Data: []byte(validWorld)},
		"worlds/b.yaml": {Data: []byte("lights: [\n")},
	}, "")

	rec := do(t, s, http.MethodGet, "/worlds", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /worlds = %d; want 200", rec.Code)
	}
	var got []summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries; want 2", len(got))
	}
	if !got[0].OK || got[0].Path != "worlds/a.yaml" || len(got[0].Cameras) != 1 {
		t.Fatalf("a.yaml summary = %+v", got[0])
	}
	if got[1].OK || got[1].Kind != "parse" || got[1].Error == "" {
		t.Fatalf("b.yaml summary = %+v; want a parse failure", got[1])
	}
}

func TestGetWorld(t *testing.T) {
	s := newService(fstest.MapFS{
		"worlds/nested/a.yaml": {Data: []byte(validWorld)},
		"worlds/b.yaml":        {Data: []byte("lights: []\n")},
	}, "")

	rec := do(t, s, http.MethodGet, "/worlds/nested/a.yaml", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET a.yaml = %d; want 200", rec.Code)
	}
	var got struct {
		MaxIterations int `json:"max_iterations"`
		Cameras       []struct {
			Name   string `json:"name"`
			Parent string `json:"parent"`
			Stereo struct {
				Mode string `json:"mode"`
			} `json:"stereo"`
		} `json:"cameras"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MaxIterations != 10 || len(got.Cameras) != 1 {
		t.Fatalf("world = %+v", got)
	}
	if c := got.Cameras[0]; c.Name != "default_camera" || c.Parent != "BODY CameraFrame" || c.Stereo.Mode != "Passive" {
		t.Fatalf("camera = %+v", c)
	}

	if rec := do(t, s, http.MethodGet, "/worlds/b.yaml", "", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("GET b.yaml = %d; want 422", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/worlds/missing.yaml", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("GET missing.yaml = %d; want 404", rec.Code)
	}
}

func TestValidate(t *testing.T) {
	s := newService(fstest.MapFS{}, "")

	rec := do(t, s, http.MethodPost, "/validate", validWorld, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("POST /validate = %d %s; want ok", rec.Code, rec.Body)
	}

	bad := strings.Replace(validWorld, "far: 10", "far: 0.001", 1)
	rec = do(t, s, http.MethodPost, "/validate", bad, nil)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), `"kind":"invalid_value"`) {
		t.Fatalf("POST /validate(bad) = %d %s; want invalid_value", rec.Code, rec.Body)
	}
}

// failingReader fails every read.
type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestValidate_BodyErrors(t *testing.T) {
	s := newService(fstest.MapFS{}, "")

	big := strings.Repeat("#", maxDescriptorSize+1)
	if rec := do(t, s, http.MethodPost, "/validate", big, nil); rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("POST /validate(too large) = %d; want 413", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/validate", failingReader{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("POST /validate(read error) = %d; want 400", rec.Code)
	}
}

func TestAuthorization(t *testing.T) {
	s := newService(fstest.MapFS{"worlds/a.yaml": {Data: []byte(validWorld)}}, "secret-key")

	if rec := do(t, s, http.MethodGet, "/worlds", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("GET without key = %d; want 401", rec.Code)
	}
	rec := do(t, s, http.MethodGet, "/worlds", "", map[string]string{"authorization": "secret-key"})
	if rec.Code != http.StatusOK {
		t.Fatalf("GET with key = %d; want 200", rec.Code)
	}
}

func TestReload(t *testing.T) {
	fsys := fstest.MapFS{"worlds/a.yaml": {Data: []byte(validWorld)}}
	s := newService(fsys, "")
	if n := len(s.Catalog().Entries()); n != 1 {
		t.Fatalf("entries = %d; want 1", n)
	}

	fsys["worlds/b.yaml"] = &fstest.MapFile{Data: []byte(validWorld)}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n := len(s.Catalog().Entries()); n != 2 {
		t.Fatalf("entries after reload = %d; want 2", n)
	}

	delete(fsys, "worlds/a.yaml")
	delete(fsys, "worlds/b.yaml")
	if err := s.Reload(); err == nil {
		t.Fatalf("Reload of a missing directory err=nil; want error")
	}
	if n := len(s.Catalog().Entries()); n != 2 {
		t.Fatalf("entries after failed reload = %d; want previous 2", n)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestCloseBeforeStart(t *testing.T) {
	s := newService(fstest.MapFS{}, "")
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Start("127.0.0.1:0", time.Millisecond); err != nil {
		t.Fatalf("Start after Close = %v; want nil", err)
	}
}

func TestStartAndClose(t *testing.T) {
	s := newService(fstest.MapFS{}, "")
	done := make(chan error, 1)
	go func() {
		done <- s.Start("127.0.0.1:0", time.Millisecond)
	}()

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start = %v; want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Start did not return after Close")
	}
}
