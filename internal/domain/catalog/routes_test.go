package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"Authorization required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func TestMobileBrowseWithoutTokenReturns401(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), nil), "AED")
	router := h.MobileRoutes(requireBearer)

	for _, path := range []string{"/", "/00000000-0000-0000-0000-000000000001/prices"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token: expected 401, got %d body=%s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestMobileBrowseWithTokenReachesHandler(t *testing.T) {
	h := NewHandler(NewService(newFakeRepo(), nil), "AED")
	router := h.MobileRoutes(requireBearer)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("GET / with token: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}
