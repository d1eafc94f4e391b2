package plinth

import (
	"context"
	"net/http"
	"testing"
)

func TestChainExecutionOrder(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, r *http.Request) Response {
				order = append(order, name)
				return next(ctx, r)
			}
		}
	}

	handler := func(ctx context.Context, r *http.Request) Response {
		order = append(order, "upload")
		return JSON(200, map[string]string{"status": "ok"})
	}

	chained := Chain(handler, tag("logging"), tag("auth"), tag("limit"))

	req := newUploadRequest(t, "document",
		testFile{"a.txt", "text/plain", "x"})
	chained(context.Background(), req)

	expected := []string{"logging", "auth", "limit", "upload"}
	if len(order) != len(expected) {
		t.Fatalf("Expected %d executions, got %d", len(expected), len(order))
	}
	for i, step := range expected {
		if order[i] != step {
			t.Errorf("Step %d: expected %s, got %s", i, step, order[i])
		}
	}
}

func TestChain_NoMiddleware(t *testing.T) {
	handler := func(ctx context.Context, r *http.Request) Response {
		return JSON(204, nil)
	}

	chained := Chain(handler)

	req := newUploadRequest(t, "document",
		testFile{"a.txt", "text/plain", "x"})
	response := chained(context.Background(), req)

	jsonResp, ok := response.(JSONResponse)
	if !ok {
		t.Fatal("Expected JSONResponse")
	}
	if jsonResp.StatusCode != 204 {
		t.Errorf("Expected status 204, got %d", jsonResp.StatusCode)
	}
}
