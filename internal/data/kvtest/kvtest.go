// Package kvtest contains supporting code for running tests that hit Redis.
package kvtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rschio/pawnshop/internal/data/kvstore"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewUnit starts a Redis container and returns a client connected to it
// plus a function to call at the end of the test.
func NewUnit(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(20 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("starting redis container: %v", err)
	}

	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		c.Terminate(ctx)
		t.Fatalf("redis endpoint: %v", err)
	}

	client := kvstore.Open(kvstore.Config{Addr: endpoint})

	ctxPing, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := kvstore.StatusCheck(ctxPing, client); err != nil {
		c.Terminate(ctx)
		t.Fatal(fmt.Errorf("redis not ready: %w", err))
	}

	teardown := func() {
		t.Helper()
		client.Close()
		c.Terminate(context.Background())
	}

	return client, teardown
}
