package testkit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

// Suite manages the lifecycle of the shared Redis test instance.
type Suite struct {
	mu    sync.Mutex
	cfg   Config
	redis *RedisModule
}

var (
	globalSuite *Suite
	globalOnce  sync.Once
)

// Global returns the singleton Suite instance.
func Global() *Suite {
	globalOnce.Do(func() {
		globalSuite = &Suite{cfg: LoadConfig()}
	})
	return globalSuite
}

// Setup starts Redis (or uses the external override).
// Returns an error if called twice without Shutdown in between.
func (s *Suite) Setup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redis != nil {
		return fmt.Errorf("suite already set up; call Shutdown first")
	}

	rdb, err := StartRedis(ctx, &s.cfg)
	if err != nil {
		return fmt.Errorf("setup redis: %w", err)
	}
	s.redis = rdb
	return nil
}

// Shutdown terminates the container unless FXRATES_KEEP_CONTAINERS is set.
func (s *Suite) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.redis == nil {
		return
	}

	if s.cfg.KeepContainers {
		fmt.Println("FXRATES_KEEP_CONTAINERS=true, leaving Redis running at", s.redis.Addr())
	} else if err := s.redis.Terminate(ctx); err != nil {
		fmt.Println("warning: failed to terminate redis container:", err)
	}
	s.redis = nil
}

// RedisAddr returns the host:port address for the test Redis instance.
func (s *Suite) RedisAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.redis == nil {
		return ""
	}
	return s.redis.Addr()
}

// NewRedisClient returns a client for database db of the test instance, closed on test cleanup.
func (s *Suite) NewRedisClient(t testing.TB, db int) *goredis.Client {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: s.RedisAddr(), DB: db})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// Run sets up the suite, executes tests, then shuts down. Intended for use in TestMain.
func (s *Suite) Run(m *testing.M) {
	ctx := context.Background()

	if err := s.Setup(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "integration test setup failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	s.Shutdown(ctx)
	os.Exit(code)
}

// Run is a package-level convenience that delegates to Global().Run.
func Run(m *testing.M) {
	Global().Run(m)
}
