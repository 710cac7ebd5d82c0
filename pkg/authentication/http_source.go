package authentication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sakhura/loginapp/pkg/logging"
	"github.com/sakhura/loginapp/pkg/users"
)

// DefaultRemoteTimeout bounds a single call to an HTTP secondary authenticator
const DefaultRemoteTimeout = 5 * time.Second

// HTTPSource is a secondary authenticator that posts the credential pair as
// JSON to a remote endpoint.
//
// A 200 response carries the user as JSON. 401, 403 and 404 mean the remote
// does not know the credentials. Any other status is an error.
type HTTPSource struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewHTTPSource creates an HTTPSource. A zero timeout uses DefaultRemoteTimeout;
// a nil httpClient uses http.DefaultClient.
func NewHTTPSource(url string, timeout time.Duration, httpClient *http.Client) (*HTTPSource, error) {
	if url == "" {
		return nil, fmt.Errorf("remote url is required")
	}
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPSource{
		url:        url,
		timeout:    timeout,
		httpClient: httpClient,
	}, nil
}

// Authenticate implements RemoteSource
func (s *HTTPSource) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(credentialsRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		logging.App.Debug("Remote rejected credentials", "username", username, "status", resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var user users.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.Username == "" {
		return nil, fmt.Errorf("decode user: missing username")
	}
	// Users handed out by the remote are active by definition.
	user.Active = true
	return &user, nil
}
