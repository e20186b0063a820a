package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMustLoadReadsGivenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	body := []byte(`
server:
  http_port: ":9999"
engine:
  poll_interval: 250ms
kafka:
  task_topic: "inbound"
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := MustLoad(path)

	if cfg.Server.HTTPPort != ":9999" {
		t.Fatalf("http_port not read from %s: %q", path, cfg.Server.HTTPPort)
	}
	if cfg.Engine.PollInterval != 250*time.Millisecond {
		t.Fatalf("poll_interval not read: %v", cfg.Engine.PollInterval)
	}
	if cfg.Kafka.TaskTopic != "inbound" {
		t.Fatalf("task_topic not read: %q", cfg.Kafka.TaskTopic)
	}
}

func TestDatabaseNodeDSN(t *testing.T) {
	n := DatabaseNode{Host: "db", Port: "5432", User: "u", Pass: "p", Name: "assets", SSLMode: "disable"}

	want := "postgres://u:p@db:5432/assets?sslmode=disable"
	if got := n.DSN(); got != want {
		t.Fatalf("DSN: got %q, want %q", got, want)
	}
}
