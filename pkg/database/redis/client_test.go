package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/huynhanx03/token-dispenser/pkg/settings"
)

const (
	redisImage          = "redis:7-alpine"
	redisPort  nat.Port = "6379/tcp"
)

func newMiniredisConfig(t *testing.T) (*miniredis.Miniredis, *settings.Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatal(err)
	}
	return mr, &settings.Redis{Host: mr.Host(), Port: port}
}

func TestNewConnection(t *testing.T) {
	_, cfg := newMiniredisConfig(t)

	engine, err := NewConnection(cfg)
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	defer engine.Close()

	if cfg.PoolSize != defaultPoolSize || cfg.MaxRetries != defaultMaxRetries {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if engine.Client() == nil {
		t.Error("Client() should not be nil")
	}
}

func TestNewConnection_Unreachable(t *testing.T) {
	mr, cfg := newMiniredisConfig(t)
	mr.Close()
	cfg.DialTimeout = 1
	cfg.MaxRetries = -1

	if _, err := NewConnection(cfg); err == nil {
		t.Fatal("NewConnection() to a closed server should fail")
	}
}

func TestRedisEngine_SetDeletePublish(t *testing.T) {
	mr, cfg := newMiniredisConfig(t)
	engine, err := NewConnection(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	ctx := context.Background()

	if err := engine.Set(ctx, "dispenser:now_serving", "T-1", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := mr.Get("dispenser:now_serving")
	if err != nil || got != `"T-1"` {
		t.Errorf("stored value = (%q, %v), want JSON string", got, err)
	}
	if ttl := mr.TTL("dispenser:now_serving"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	if err := engine.Delete(ctx, "dispenser:now_serving"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if mr.Exists("dispenser:now_serving") {
		t.Error("key should be deleted")
	}
	if err := engine.Delete(ctx); err != nil {
		t.Errorf("Delete() with no keys = %v", err)
	}

	sub := engine.Client().Subscribe(ctx, "dispenser:board")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := engine.Publish(ctx, "dispenser:board", "T-2"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage() error = %v", err)
	}
	var label string
	if err := json.Unmarshal([]byte(msg.Payload), &label); err != nil || label != "T-2" {
		t.Errorf("payload = %q, want \"T-2\"", msg.Payload)
	}
}

func TestRedisEngine_SetMulti(t *testing.T) {
	mr, cfg := newMiniredisConfig(t)
	engine, err := NewConnection(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	ctx := context.Background()

	values := map[string]any{
		"dispenser:now_serving": "T-4",
		"dispenser:waiting":     []string{"T-5", "T-6"},
	}
	if err := engine.SetMulti(ctx, values, 0); err != nil {
		t.Fatalf("SetMulti() error = %v", err)
	}
	if got, _ := mr.Get("dispenser:now_serving"); got != `"T-4"` {
		t.Errorf("now_serving = %q", got)
	}
	if got, _ := mr.Get("dispenser:waiting"); got != `["T-5","T-6"]` {
		t.Errorf("waiting = %q", got)
	}

	if err := engine.SetMulti(ctx, map[string]any{"bad": make(chan int)}, 0); err == nil {
		t.Error("SetMulti() with unencodable value should fail")
	}
	if mr.Exists("bad") {
		t.Error("failed SetMulti should not write anything")
	}
	if err := engine.SetMulti(ctx, nil, 0); err != nil {
		t.Errorf("SetMulti(nil) = %v", err)
	}
}

func TestRedisEngine_DefaultConfig(t *testing.T) {
	cfg := &settings.Redis{Host: "localhost", PoolSize: 42}
	engine := &RedisEngine{config: cfg}
	engine.setDefaultConfig()

	if cfg.Port != defaultPort || cfg.PoolSize != 42 || cfg.ReadTimeout != 3 || cfg.MaxRetryBackoff != 500 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestRedisEngine_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	if !isDockerRunning(ctx) {
		t.Skip("Docker is not running, skipping integration test")
	}

	host, port, terminate, err := setupRedisContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup redis container: %v", err)
	}
	defer terminate()

	engine, err := NewConnection(&settings.Redis{Host: host, Port: port})
	if err != nil {
		t.Fatalf("NewConnection() error = %v", err)
	}
	defer engine.Close()

	if err := engine.Set(ctx, "dispenser:waiting", []string{"T-1", "T-2"}, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	raw, err := engine.Client().Get(ctx, "dispenser:waiting").Bytes()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var waiting []string
	if err := json.Unmarshal(raw, &waiting); err != nil || len(waiting) != 2 {
		t.Errorf("waiting = %v (%v)", waiting, err)
	}
}

func setupRedisContainer(ctx context.Context) (string, int, func(), error) {
	req := testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{string(redisPort)},
		WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", 0, nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", 0, nil, fmt.Errorf("failed to get host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		_ = container.Terminate(ctx)
		return "", 0, nil, fmt.Errorf("failed to get port: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("failed to terminate container: %v\n", err)
		}
	}

	return host, mappedPort.Int(), terminate, nil
}

func isDockerRunning(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "docker", "info")
	if err := cmd.Run(); err != nil {
		return false
	}
	return true
}
