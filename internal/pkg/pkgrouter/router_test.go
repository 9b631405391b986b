package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AAnishRam/medical-data-processing/internal/pkg/pkgerror"
)

type createdResponse struct {
	ID string `json:"id"`
}

func (createdResponse) StatusCode() int { return http.StatusCreated }

func (createdResponse) Message() string { return "created" }

func TestRouterEncodesSuccessEnvelope(t *testing.T) {
	r := NewRouter(&staticGenerator{value: "cid"})
	r.POST("/things/:id", func(ctx context.Context, _ *http.Request) (any, error) {
		return createdResponse{ID: GetParam(ctx, "id")}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/things/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var body struct {
		Message string          `json:"message"`
		Data    createdResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "created" || body.Data.ID != "abc" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestRouterNilResponseIsNoContent(t *testing.T) {
	r := NewRouter(nil)
	r.DELETE("/things/:id", func(context.Context, *http.Request) (any, error) {
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodDelete, "/things/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRouterMapsErrors(t *testing.T) {
	r := NewRouter(nil)
	r.GET("/invalid", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewInvalidInput(errors.New("session_id is required"))
	})
	r.GET("/stub", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewNotImplemented("not yet")
	})
	r.GET("/plain", func(context.Context, *http.Request) (any, error) {
		return nil, errors.New("boom")
	})

	cases := []struct {
		path   string
		status int
		msg    string
		detail string
	}{
		{path: "/invalid", status: http.StatusUnprocessableEntity, msg: "validation error", detail: "session_id is required"},
		{path: "/stub", status: http.StatusNotImplemented, msg: "not yet"},
		{path: "/plain", status: http.StatusInternalServerError, msg: "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("unexpected status: %d", rec.Code)
			}

			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tc.msg {
				t.Fatalf("unexpected message: %q", body.Message)
			}
			if body.Error["detail"] != tc.detail {
				t.Fatalf("unexpected detail: %q", body.Error["detail"])
			}
		})
	}
}
