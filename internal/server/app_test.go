package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/supportdesk/internal/logging"
	"github.com/dmitrijs2005/supportdesk/internal/server/archive"
	"github.com/dmitrijs2005/supportdesk/internal/server/config"
	"github.com/dmitrijs2005/supportdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/supportdesk/internal/timex"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageDriver = config.DriverMemory
	c.HTTPAddress = "127.0.0.1:0"
	c.GRPCAddress = "127.0.0.1:0"
	c.ShutdownTimeout = timex.Duration(2 * time.Second)
	return c
}

type closeTracking struct {
	*repomanager.MemoryRepositoryManager
	closed bool
}

func (c *closeTracking) Close(ctx context.Context) error {
	c.closed = true
	return nil
}

func stubStorage(t *testing.T) *closeTracking {
	t.Helper()
	m := &closeTracking{MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager()}
	orig := openStorage
	openStorage = func(context.Context, *config.Config, logging.Logger) (repomanager.RepositoryManager, error) {
		return m, nil
	}
	t.Cleanup(func() { openStorage = orig })
	return m
}

func TestNewApp_RunAndStop(t *testing.T) {
	storage := stubStorage(t)

	app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return app.grpc.Serving(context.Background()) }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	require.True(t, storage.closed)
}

func TestNewApp_ProductionRequiresSecret(t *testing.T) {
	stubStorage(t)
	c := testConfig()
	c.Env = "production"
	c.JWTSecret = ""

	_, err := NewApp(context.Background(), c, logging.Nop{})
	require.Error(t, err)
}

func TestNewApp_StorageFailure(t *testing.T) {
	orig := openStorage
	openStorage = func(context.Context, *config.Config, logging.Logger) (repomanager.RepositoryManager, error) {
		return nil, errors.New("connection refused")
	}
	t.Cleanup(func() { openStorage = orig })

	_, err := NewApp(context.Background(), testConfig(), logging.Nop{})
	require.ErrorContains(t, err, "connection refused")
}

func TestNewApp_ArchiveFailureClosesStorage(t *testing.T) {
	storage := stubStorage(t)

	orig := openArchive
	openArchive = func(context.Context, config.S3Config) (archive.Store, error) {
		return nil, errors.New("bad region")
	}
	t.Cleanup(func() { openArchive = orig })

	c := testConfig()
	c.S3.Bucket = "docs"

	_, err := NewApp(context.Background(), c, logging.Nop{})
	require.ErrorContains(t, err, "bad region")
	require.True(t, storage.closed)
}

func TestRun_BadAddressFails(t *testing.T) {
	stubStorage(t)
	c := testConfig()
	c.HTTPAddress = "127.0.0.1:99999"

	app, err := NewApp(context.Background(), c, logging.Nop{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not fail")
	}
}

func TestRun_ListenFailureNeverReportsServing(t *testing.T) {
	for _, failing := range []int{1, 2} {
		t.Run(fmt.Sprintf("listener %d", failing), func(t *testing.T) {
			storage := stubStorage(t)

			var bound []net.Listener
			calls := 0
			orig := listen
			listen = func(network, address string) (net.Listener, error) {
				calls++
				if calls == failing {
					return nil, errors.New("address already in use")
				}
				l, err := net.Listen(network, address)
				if err == nil {
					bound = append(bound, l)
				}
				return l, err
			}
			t.Cleanup(func() { listen = orig })

			app, err := NewApp(context.Background(), testConfig(), logging.Nop{})
			require.NoError(t, err)

			err = app.Run(context.Background())
			require.ErrorContains(t, err, "address already in use")
			require.False(t, app.grpc.Serving(context.Background()))
			require.True(t, storage.closed)

			for _, l := range bound {
				_, err := l.Accept()
				require.Error(t, err, "listener %s left open", l.Addr())
			}
		})
	}
}
