package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "seenby/internal/platform/errors"
	phttp "seenby/internal/platform/net/http"
	"seenby/internal/platform/testkit"
	"seenby/internal/services/seenby/domain"
	"seenby/internal/services/seenby/repo"
)

type fakeService struct {
	status domain.SeenBy
	count  int64
	err    error
}

func (f *fakeService) Record(_ context.Context, postID, userID string) (int64, error) {
	if postID == "" || userID == "" {
		return 0, perr.Validationf("postID and userID are required")
	}
	return f.count, f.err
}

func (f *fakeService) Count(context.Context, string) (int64, error) { return f.count, f.err }

func (f *fakeService) Users(context.Context, string) (map[string]int64, error) {
	return f.status.Users, f.err
}

func (f *fakeService) Status(context.Context, string) (domain.SeenBy, error) {
	return f.status, f.err
}

func (f *fakeService) Strategy() repo.Strategy { return repo.StrategyAssocTable }

func mountTestRoutes(f *fakeService) *chi.Mux {
	m := chi.NewRouter()
	r := phttp.AdaptChi(m)
	r.Route("/posts", func(rr phttp.Router) { Register(rr, f) })
	return m
}

func doRequest(t *testing.T, m *chi.Mux, method, path string) (int, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\nbody: %s", err, rec.Body.String())
	}
	return rec.Code, env
}

func TestStatusEndpoint(t *testing.T) {
	m := mountTestRoutes(&fakeService{
		status: domain.SeenBy{Count: 4, Users: map[string]int64{"7": 3, "9": 1}},
	})

	code, env := doRequest(t, m, stdhttp.MethodGet, "/posts/42/seen-by")
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", env.Data)
	}
	if data["count"] != float64(4) {
		t.Fatalf("count = %v, want 4", data["count"])
	}
	users, ok := data["users"].(map[string]any)
	if !ok || users["7"] != float64(3) || users["9"] != float64(1) {
		t.Fatalf("unexpected users payload: %#v", data["users"])
	}
}

func TestRecordEndpoint(t *testing.T) {
	m := mountTestRoutes(&fakeService{count: 5})

	code, env := doRequest(t, m, stdhttp.MethodPost, "/posts/42/seen-by/7")
	if code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", env.Data)
	}
	if data["count"] != float64(5) {
		t.Fatalf("count = %v, want 5", data["count"])
	}
}

func TestMissingPostMapsTo404(t *testing.T) {
	m := mountTestRoutes(&fakeService{err: perr.NotFoundf("post %q not found", "404")})

	code, env := doRequest(t, m, stdhttp.MethodGet, "/posts/404/seen-by")
	if code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("envelope code = %d, want %d", env.Code, perr.ErrorCodeNotFound)
	}
	testkit.MustContain(t, env.Error, "not found")
}

func TestValidationMapsTo400(t *testing.T) {
	m := mountTestRoutes(&fakeService{err: perr.Validationf("postID is required")})

	code, env := doRequest(t, m, stdhttp.MethodGet, "/posts/42/seen-by")
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if env.Code != perr.ErrorCodeValidation {
		t.Fatalf("envelope code = %d, want %d", env.Code, perr.ErrorCodeValidation)
	}
}
