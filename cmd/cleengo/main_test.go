package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"cleengo/cleeng/entity"
	"cleengo/internal/config"
)

func newScriptClientConfig(t *testing.T) *config.Config {
	t.Helper()
	return loadConfig(t, `{"transport":"script","publisherToken":"pub","cache":{"enabled":true}}`)
}

func loadConfig(t *testing.T, raw string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cleengo.json")
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestRun_Commands(t *testing.T) {
	cfg := newScriptClientConfig(t)
	tr, closeTransport, err := buildTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	defer closeTransport()
	client := newClient(cfg, tr, zerolog.Nop())
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, client, []string{"call", "createPassOffer", `{"offerData":{"title":"Day pass"}}`}, &out); err != nil {
		t.Fatalf("call: %v", err)
	}
	var created map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &created); err != nil {
		t.Fatalf("call output = %s", out.String())
	}
	if created["title"] != "Day pass" {
		t.Errorf("created = %v", created)
	}

	batchFile := filepath.Join(t.TempDir(), "batch.json")
	body := `[{"method":"getPassOffer","params":{"offerId":"` + created["id"].(string) + `"}},{"method":"getPublisherEmail","params":{}}]`
	if err := os.WriteFile(batchFile, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out.Reset()
	if err := run(ctx, client, []string{"batch", batchFile}, &out); err != nil {
		t.Fatalf("batch: %v", err)
	}
	var results []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &results); err != nil || len(results) != 2 {
		t.Fatalf("batch output = %s", out.String())
	}
	if results[1]["publisherEmail"] != "publisher@example.com" {
		t.Errorf("results = %v", results)
	}
}

func TestRun_Access(t *testing.T) {
	cfg := newScriptClientConfig(t)
	tr, closeTransport, err := buildTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	defer closeTransport()
	client := newClient(cfg, tr, zerolog.Nop())
	ctx := context.Background()

	tok, err := client.GenerateCustomerToken(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GenerateCustomerToken: %v", err)
	}
	d, _ := tok.Data()
	client.SetCustomerToken(d.Token)

	var out bytes.Buffer
	if err := run(ctx, client, []string{"access", "R1"}, &out); err != nil {
		t.Fatalf("access: %v", err)
	}
	if strings.TrimSpace(out.String()) != "denied" {
		t.Errorf("access = %q, want denied", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := newScriptClientConfig(t)
	tr, closeTransport, err := buildTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	defer closeTransport()
	client := newClient(cfg, tr, zerolog.Nop())

	tests := [][]string{
		{"launch"},
		{"call"},
		{"call", "getCustomer", "{"},
		{"batch"},
		{"access"},
	}
	for _, args := range tests {
		if err := run(context.Background(), client, args, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%v) succeeded, want error", args)
		}
	}
}

func TestRun_BatchModeConfig(t *testing.T) {
	cfg := loadConfig(t, `{"transport":"script","publisherToken":"pub","batchMode":true}`)
	tr, closeTransport, err := buildTransport(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	defer closeTransport()
	client := newClient(cfg, tr, zerolog.Nop())
	ctx := context.Background()
	if !client.BatchMode() {
		t.Fatal("client should start in batch mode")
	}

	var out bytes.Buffer
	if err := run(ctx, client, []string{"call", "getPublisherEmail", `{"publisherId":"1"}`}, &out); err != nil {
		t.Fatalf("call: %v", err)
	}
	if !strings.Contains(out.String(), "publisherEmail") {
		t.Errorf("call output = %q", out.String())
	}
	if client.Pending() != 0 || len(client.LastRequest()) == 0 {
		t.Errorf("call was not sent: pending = %d", client.Pending())
	}
	if !client.BatchMode() {
		t.Error("batch mode should be restored")
	}

	var ct *entity.CustomerToken
	err = client.Batch(ctx, func() error {
		var err error
		ct, err = client.GenerateCustomerToken(ctx, "jane@example.com")
		return err
	})
	if err != nil {
		t.Fatalf("GenerateCustomerToken: %v", err)
	}
	d, err := ct.Data()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	client.SetCustomerToken(d.Token)

	out.Reset()
	if err := run(ctx, client, []string{"access", "R1"}, &out); err != nil {
		t.Fatalf("access: %v", err)
	}
	if strings.TrimSpace(out.String()) != "denied" {
		t.Errorf("access = %q, want denied", out.String())
	}
}
