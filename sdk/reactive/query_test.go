package reactive

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/itportal/itportal/internal/fakeapi"
	"github.com/itportal/itportal/sdk/auth"
	"github.com/itportal/itportal/sdk/internal/restmachinery"
	"github.com/itportal/itportal/sdk/meta"
	"github.com/itportal/itportal/storage/memory"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// fakeSource publishes tokens the way auth.SessionStore does: a slow reader
// only sees the latest one.
type fakeSource struct {
	mu      sync.Mutex
	ch      chan string
	stopped bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan string, 1)}
}

func (f *fakeSource) WatchAccessToken() (<-chan string, func()) {
	return f.ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped = true
	}
}

func (f *fakeSource) publish(token string) {
	select {
	case <-f.ch:
	default:
	}
	f.ch <- token
}

func (f *fakeSource) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func TestBindFetchesImmediately(t *testing.T) {
	q := Bind(
		context.Background(),
		newFakeSource(),
		func(context.Context) (string, error) {
			return "projects", nil
		},
	)
	defer q.Close()
	value, err := q.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "projects", value)
	require.Equal(t, 1, q.Fetches())
	latest, err, ok := q.Latest()
	require.True(t, ok)
	require.NoError(t, err)
	require.Equal(t, "projects", latest)
}

func TestBindRefetchesOnTokenChange(t *testing.T) {
	source := newFakeSource()
	var calls int
	q := Bind(
		context.Background(),
		source,
		func(context.Context) (int, error) {
			calls++
			return calls, nil
		},
	)
	defer q.Close()
	value, err := q.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, value)

	source.publish("A2")
	value, err = q.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, value)

	q.Refetch()
	value, err = q.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, value)
}

func TestBindCoalescesTokenChanges(t *testing.T) {
	source := newFakeSource()
	started := make(chan struct{}, 10)
	gate := make(chan struct{})
	q := Bind(
		context.Background(),
		source,
		func(context.Context) (struct{}, error) {
			started <- struct{}{}
			<-gate
			return struct{}{}, nil
		},
	)
	defer q.Close()

	<-started
	source.publish("A2")
	source.publish("A3")
	source.publish("A4")
	close(gate)

	require.Eventually(
		t,
		func() bool { return q.Fetches() == 2 },
		time.Second,
		5*time.Millisecond,
	)
	require.Never(
		t,
		func() bool { return q.Fetches() > 2 },
		50*time.Millisecond,
		5*time.Millisecond,
	)
}

func TestNextHonorsContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	q := Bind(
		context.Background(),
		newFakeSource(),
		func(ctx context.Context) (string, error) {
			select {
			case <-gate:
			case <-ctx.Done():
			}
			return "", nil
		},
	)
	defer q.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Next(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	_, _, ok := q.Latest()
	require.False(t, ok)
}

func TestQueryClose(t *testing.T) {
	source := newFakeSource()
	q := Bind(
		context.Background(),
		source,
		func(ctx context.Context) (string, error) {
			return "", errors.New("unreachable")
		},
	)
	_, err := q.Next(context.Background())
	require.Error(t, err)
	q.Close()
	require.True(t, source.isStopped())
	_, err = q.Next(context.Background())
	require.Equal(t, ErrClosed, err)
}

func TestBindRepairsReadAfterRefresh(t *testing.T) {
	srv := fakeapi.New()
	defer srv.Close()
	srv.AddUser("E001", "x", "Kim")
	_, err := srv.Seed(fakeapi.Projects, map[string]interface{}{"prjNm": "ERP"})
	require.NoError(t, err)

	ctx := context.Background()
	store := auth.NewSessionStore(srv.URL, memory.NewStorage(), nil)
	require.NoError(
		t,
		store.Login(ctx, auth.Credentials{ID: "E001", Secret: "x"}),
	)
	client := restmachinery.NewBaseClient(
		srv.URL,
		auth.NewGateway(store, nil, nil, nil),
	)
	srv.ExpireAccessTokens()

	q := Bind(
		ctx,
		store,
		func(ctx context.Context) ([]map[string]interface{}, error) {
			projects := []map[string]interface{}{}
			err := client.ExecuteRequest(
				ctx,
				restmachinery.OutboundRequest{
					Method:  http.MethodGet,
					Path:    "api/projects",
					RespObj: &projects,
				},
			)
			return projects, err
		},
	)
	defer q.Close()

	// The first read fails with a 401; the refresh it triggers changes the
	// token, which issues the read again.
	nextCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var projects []map[string]interface{}
	for {
		projects, err = q.Next(nextCtx)
		if err == nil {
			break
		}
		require.IsType(t, &meta.ErrAuthentication{}, err)
	}
	require.True(t, store.IsAuthenticated())
	require.Len(t, projects, 1)
	require.Equal(t, "ERP", projects[0]["prjNm"])
	require.Equal(t, 2, q.Fetches())
	require.Equal(t, 1, srv.Calls(http.MethodPost, "/api/auth/refresh"))
}
