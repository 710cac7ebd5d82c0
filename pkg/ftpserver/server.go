package ftpserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"

	ftpserverlib "github.com/fclairamb/ftpserverlib"
	"github.com/spf13/afero"

	"github.com/sakhura/loginapp/pkg/authentication"
	"github.com/sakhura/loginapp/pkg/logging"
)

// DefaultHomePattern places each user under users/<username>
const DefaultHomePattern = "users/%s"

// Config holds FTP server configuration
type Config struct {
	ListenAddr           string
	Port                 int
	RootDir              string // Root directory that FTP users will be restricted to
	HomePattern          string // Pattern for user home directories relative to RootDir, %s is the lowercased username
	PassiveTransferPorts [2]int
	IdleTimeout          int // Seconds
	TLSCertFile          string
	TLSKeyFile           string
}

// LoginExecutor runs the login rules for a credential pair
type LoginExecutor interface {
	Execute(ctx context.Context, username, password string) authentication.Outcome
}

// Server exposes per-user home directories over FTP, authenticating every
// USER/PASS pair through a LoginExecutor.
type Server struct {
	config *Config
	login  LoginExecutor
	rootFs afero.Fs
	server *ftpserverlib.FtpServer

	startTime      time.Time
	activeConns    atomic.Int32
	loginSuccesses atomic.Int64
	loginFailures  atomic.Int64
}

// New creates a new FTP server. A nil fs serves from the OS filesystem.
func New(config *Config, login LoginExecutor, fs afero.Fs) (*Server, error) {
	if login == nil {
		return nil, fmt.Errorf("login executor is required")
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if _, err := fs.Stat(config.RootDir); err != nil {
		return nil, fmt.Errorf("root directory does not exist: %w", err)
	}
	if config.HomePattern == "" {
		config.HomePattern = DefaultHomePattern
	}

	s := &Server{
		config: config,
		login:  login,
		rootFs: afero.NewBasePathFs(fs, config.RootDir),

		startTime: time.Now(),
	}

	s.server = ftpserverlib.NewFtpServer(&ftpDriver{server: s})
	s.server.Logger = logging.App.With("component", "ftp")

	return s, nil
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Stop stops the server
func (s *Server) Stop() error {
	return s.server.Stop()
}

// GetActiveConnections returns the number of connected clients
func (s *Server) GetActiveConnections() int32 {
	return s.activeConns.Load()
}

// GetStartTime returns when the server was created
func (s *Server) GetStartTime() time.Time {
	return s.startTime
}

// GetLoginCounts returns the successful and failed logins so far
func (s *Server) GetLoginCounts() (successes, failures int64) {
	return s.loginSuccesses.Load(), s.loginFailures.Load()
}

// homePath returns the cleaned home directory of username, relative to the root
func (s *Server) homePath(username string) string {
	home := fmt.Sprintf(s.config.HomePattern, strings.ToLower(username))
	return path.Clean("/" + home)
}

// authenticate runs the login rules and, on success, prepares the user's home
func (s *Server) authenticate(ctx context.Context, user, pass string) (*ftpClient, error) {
	switch out := s.login.Execute(ctx, user, pass).(type) {
	case authentication.Success:
		home := s.homePath(out.User.Username)
		if err := s.rootFs.MkdirAll(home, 0755); err != nil {
			logging.App.Error("Failed to create home directory", "user", out.User.Username, "home", home, "error", err)
			return nil, fmt.Errorf("failed to create home directory: %w", err)
		}

		s.loginSuccesses.Add(1)
		logging.Access.LogAuth("LOGIN", out.User.Username, "success", "id", out.User.ID)
		return &ftpClient{
			Fs:   afero.NewBasePathFs(s.rootFs, home),
			user: out.User.Username,
			home: home,
		}, nil

	case authentication.Failure:
		s.loginFailures.Add(1)
		logging.Access.LogAuth("LOGIN", user, "failure", "reason", out.Message)
		return nil, out

	default:
		return nil, fmt.Errorf("unexpected login outcome %T", out)
	}
}

// ftpDriver implements ftpserverlib.MainDriver
type ftpDriver struct {
	server *Server
}

// GetSettings returns server settings
func (d *ftpDriver) GetSettings() (*ftpserverlib.Settings, error) {
	cfg := d.server.config
	return &ftpserverlib.Settings{
		ListenAddr: fmt.Sprintf("%s:%d", cfg.ListenAddr, cfg.Port),
		PassiveTransferPortRange: &ftpserverlib.PortRange{
			Start: cfg.PassiveTransferPorts[0],
			End:   cfg.PassiveTransferPorts[1],
		},
		IdleTimeout: cfg.IdleTimeout,
	}, nil
}

// ClientConnected is called when a client connects
func (d *ftpDriver) ClientConnected(cc ftpserverlib.ClientContext) (string, error) {
	d.server.activeConns.Add(1)
	logging.App.Debug("Client connected", "client_id", cc.ID(), "remote", cc.RemoteAddr())
	return "Bienvenido", nil
}

// ClientDisconnected is called when a client disconnects
func (d *ftpDriver) ClientDisconnected(cc ftpserverlib.ClientContext) {
	d.server.activeConns.Add(-1)
	logging.App.Debug("Client disconnected", "client_id", cc.ID())
}

// AuthUser authenticates the user and returns a driver rooted at their home
func (d *ftpDriver) AuthUser(cc ftpserverlib.ClientContext, user, pass string) (ftpserverlib.ClientDriver, error) {
	client, err := d.server.authenticate(context.Background(), user, pass)
	if err != nil {
		return nil, err
	}
	cc.SetPath("/")
	return client, nil
}

// GetTLSConfig returns the TLS config, or nil when no certificate is configured
func (d *ftpDriver) GetTLSConfig() (*tls.Config, error) {
	cfg := d.server.config
	if cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading TLS key pair: %w", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
