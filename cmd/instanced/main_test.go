package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"instanced/internal/config"
	"instanced/pkg/types"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestRequestLevel(t *testing.T) {
	cases := map[string]string{"debug": "debug", "INFO": "info", "warn": "info", "error": "error", "disabled": "off"}
	for in, want := range cases {
		if got := requestLevel(in); got != want {
			t.Fatalf("requestLevel(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if bytes.Contains(buf.Bytes(), []byte("hidden")) || !bytes.Contains(buf.Bytes(), []byte(`"message":"shown"`)) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if _, err := newLogger(config.Config{LogLevel: "info", LogFormat: "xml"}, &buf); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := newLogger(config.Config{LogLevel: "loud"}, &buf); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(p, []byte("addr: :1111\ncommit_delay_ms: 5\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--config", p, "--addr", ":2222", "--cors-origins", "http://a.example, http://b.example"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	addr, _ := cmd.Flags().GetString("addr")
	cors, _ := cmd.Flags().GetString("cors-origins")
	cfg, err := resolveConfig(cmd, p, config.Config{Addr: addr}, cors)
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Addr != ":2222" || cfg.CommitDelayMS != 5 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "http://a.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestResolveConfig_BadFile(t *testing.T) {
	cmd := newRootCmd()
	if _, err := resolveConfig(cmd, "/nope/cfg.yaml", config.Config{}, ""); err == nil {
		t.Fatalf("expected load error")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

func TestRunServesAndShutsDown(t *testing.T) {
	cfg := config.Defaults()
	cfg.Addr = freeAddr(t)
	cfg.CommitDelayMS = 10
	cfg.LogFormat = "json"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, io.Discard) }()

	base := "http://" + cfg.Addr
	deadline := time.Now().Add(3 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(base+"/instances", "application/json", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var ack types.StatusResponse
	_ = json.NewDecoder(resp.Body).Decode(&ack)
	resp.Body.Close()
	if ack.Status != "ok" {
		t.Fatalf("ack=%+v", ack)
	}

	var list []types.Instance
	deadline = time.Now().Add(3 * time.Second)
	for len(list) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("instance never committed")
		}
		time.Sleep(10 * time.Millisecond)
		resp, err := http.Get(base + "/instances")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		_ = json.NewDecoder(resp.Body).Decode(&list)
		resp.Body.Close()
	}
	if list[0].State != "stopped" {
		t.Fatalf("unexpected list: %+v", list)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
