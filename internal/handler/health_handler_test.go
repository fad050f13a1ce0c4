package handler

import (
	"net/http"
	"testing"
)

func TestRoot(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/", "")

	if err := NewHealthHandler().Root(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	want := `{"message":"Welcome to the Marginal Wallet API!"}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("Expected %s, got %s", want, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/health", "")

	if err := NewHealthHandler().Health(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
}
