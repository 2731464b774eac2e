package sandbox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"cleengo/cleeng"
	"cleengo/cleeng/transport"
	"cleengo/internal/script"
)

func newBackend(t *testing.T) *script.Manager {
	t.Helper()
	m := script.NewManager(zerolog.Nop())
	if err := m.LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	return m
}

func startServer(t *testing.T) *Server {
	t.Helper()
	srv := New(Config{Host: "127.0.0.1", Port: 0}, newBackend(t), zerolog.Nop())
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(newBackend(t), 0, zerolog.Nop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, RPCPath, nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandler_BodyTooLarge(t *testing.T) {
	h := NewHandler(newBackend(t), 8, zerolog.Nop())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, RPCPath, strings.NewReader(`[{"method":"getCustomer"}]`)))
	if !strings.Contains(rec.Body.String(), "request body too large") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandler_NotificationOnly(t *testing.T) {
	h := NewHandler(newBackend(t), 0, zerolog.Nop())
	rec := httptest.NewRecorder()
	body := `[{"method":"trackOfferImpression","params":{"offerId":"A1"},"jsonrpc":"2.0"}]`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, RPCPath, strings.NewReader(body)))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestServer_HTTPClient(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	client := cleeng.New(cleeng.Config{Endpoint: srv.RPCURL(), PublisherToken: "pub"})

	var email, created interface{ Pending() bool }
	err := client.Batch(ctx, func() error {
		e, err := client.GetPublisherEmail(ctx, "P1")
		if err != nil {
			return err
		}
		o, err := client.CreateEventOffer(ctx, cleeng.Params{"title": "Live"})
		if err != nil {
			return err
		}
		email, created = e, o
		return nil
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if email.Pending() || created.Pending() {
		t.Error("placeholders should be populated")
	}
	if !strings.Contains(string(client.LastRequest()), `"id":2`) {
		t.Errorf("last request = %s", client.LastRequest())
	}
}

func TestServer_WSClient(t *testing.T) {
	srv := startServer(t)
	ctx := context.Background()

	ws := transport.NewWS(transport.WSConfig{})
	defer ws.Close()

	client := cleeng.New(cleeng.Config{Endpoint: srv.WSURL(), Transport: ws, PublisherToken: "pub"})
	for i := 0; i < 3; i++ {
		tok, err := client.GenerateCustomerToken(ctx, "jane@example.com")
		if err != nil {
			t.Fatalf("GenerateCustomerToken #%d: %v", i, err)
		}
		d, err := tok.Data()
		if err != nil || d.Token == "" {
			t.Errorf("token = %+v, %v", d, err)
		}
	}
}

func TestServer_RawHTTP(t *testing.T) {
	srv := startServer(t)

	resp, err := http.Post(srv.RPCURL(), "application/json", strings.NewReader(`[]`))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"code":-32600`) {
		t.Errorf("empty batch body = %s", body)
	}
}
