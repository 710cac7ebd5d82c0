package authentication

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch req.Username {
		case "remoto":
			if req.Password != "remoto123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": 70, "username": "remoto", "password": "remoto123", "email": "remoto@empresa.com"}`))
		case "forbidden":
			w.WriteHeader(http.StatusForbidden)
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "garbage":
			_, _ = w.Write([]byte(`not json`))
		case "slow":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewHTTPSource(t *testing.T) {
	_, err := NewHTTPSource("", 0, nil)
	assert.Error(t, err)

	src, err := NewHTTPSource("http://localhost", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRemoteTimeout, src.timeout)
	assert.Equal(t, http.DefaultClient, src.httpClient)
}

func TestHTTPSource_Authenticate(t *testing.T) {
	srv := newRemoteServer(t)
	src, err := NewHTTPSource(srv.URL, time.Second, srv.Client())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("known user", func(t *testing.T) {
		u, err := src.Authenticate(ctx, "remoto", "remoto123")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, 70, u.ID)
		assert.Equal(t, "remoto@empresa.com", u.Email)
		assert.True(t, u.Active)
	})

	for _, name := range []string{"forbidden", "unknown"} {
		t.Run("rejected "+name, func(t *testing.T) {
			u, err := src.Authenticate(ctx, name, "whatever1")
			assert.NoError(t, err)
			assert.Nil(t, u)
		})
	}

	t.Run("wrong password", func(t *testing.T) {
		u, err := src.Authenticate(ctx, "remoto", "nope123")
		assert.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := src.Authenticate(ctx, "broken", "whatever1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 500")
	})

	t.Run("bad body", func(t *testing.T) {
		_, err := src.Authenticate(ctx, "garbage", "whatever1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode user")
	})
}

func TestHTTPSource_Timeout(t *testing.T) {
	srv := newRemoteServer(t)
	src, err := NewHTTPSource(srv.URL, 50*time.Millisecond, srv.Client())
	require.NoError(t, err)

	start := time.Now()
	_, err = src.Authenticate(context.Background(), "slow", "whatever1")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	repo, _ := newTestRepository(t, src)
	f := requireFailure(t, repo.Authenticate(context.Background(), "slow", "whatever1"))
	assert.True(t, strings.HasPrefix(f.Message, "Error de conexión: "))
	assert.ErrorIs(t, f, ErrUpstream)
}
