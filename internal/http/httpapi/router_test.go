package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"innospark/internal/catalog"
	"innospark/internal/http/handlers"
	"innospark/internal/infra"
	"innospark/internal/providers/projectstore"
	"innospark/internal/providers/suggest"
	"innospark/internal/session"
)

func newTestServer(t *testing.T, appEnv string) *httptest.Server {
	t.Helper()
	seed, err := catalog.Load(time.Now())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cfg := &infra.Config{
		AppEnv:             appEnv,
		JWTSecret:          "router-secret",
		SessionTTL:         time.Hour,
		StoreTimeout:       time.Second,
		DefaultLocale:      "en",
		CORSAllowedOrigins: []string{"*"},
	}
	store := projectstore.NewMemory()
	mgr := session.NewManager(seed, session.Options{Store: store, Logger: zerolog.Nop(), BcryptCost: bcrypt.MinCost}, time.Hour)
	app := handlers.NewApp(cfg, zerolog.Nop(), mgr, store, suggest.NewStaticAssistant())
	srv := httptest.NewServer(NewRouter(app, cfg, zerolog.Nop(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server, acceptLanguage string) string {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/sessions", nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create session status: %d", res.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return body.Token
}

func postIntent(t *testing.T, srv *httptest.Server, token, acceptLanguage, doc string) map[string]any {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/session/intents", strings.NewReader(doc))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post intent: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("post intent status %d: %s", res.StatusCode, b)
	}
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestSessionRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, "production")
	for _, path := range []string{"/v1/session/screen", "/v1/projects"} {
		res, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s status = %d, want 401", path, res.StatusCode)
		}
	}
}

func TestDemoRouteOnlyInDevelopment(t *testing.T) {
	srv := newTestServer(t, "production")
	token := createSession(t, srv, "")
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/session/demo-projects", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound && res.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want the route to be absent", res.StatusCode)
	}
}

func TestDonationNoticeFollowsAcceptLanguage(t *testing.T) {
	srv := newTestServer(t, "development")
	token := createSession(t, srv, "id-ID")

	out := postIntent(t, srv, token, "id-ID,id;q=0.9", `{"type":"donate","project_id":"p1","amount":100000}`)
	notice := out["notice"].(map[string]any)
	if !strings.Contains(notice["message"].(string), "Rp 100.000") {
		t.Fatalf("unexpected notice: %v", notice)
	}

	out = postIntent(t, srv, token, "en-US", `{"type":"donate","project_id":"p1","amount":100000}`)
	notice = out["notice"].(map[string]any)
	if !strings.Contains(notice["message"].(string), "Rp 100,000") {
		t.Fatalf("unexpected notice: %v", notice)
	}
}

func TestStreamPushesScreens(t *testing.T) {
	srv := newTestServer(t, "development")
	token := createSession(t, srv, "")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/session/stream?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first map[string]any
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read first screen: %v", err)
	}
	if first["kind"] != "home" {
		t.Fatalf("first frame kind = %v, want home", first["kind"])
	}

	postIntent(t, srv, token, "", `{"type":"open_project","project_id":"p2"}`)

	var next map[string]any
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("read pushed screen: %v", err)
	}
	if next["kind"] != "project_detail" {
		t.Fatalf("pushed frame kind = %v, want project_detail", next["kind"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, "development")
	createSession(t, srv, "")

	res, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "innospark_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}
