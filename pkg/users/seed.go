package users

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sakhura/loginapp/pkg/logging"
)

// seedRecord mirrors User but lets a missing "active" key default to true
type seedRecord struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Email    string `json:"email" yaml:"email"`
	Active   *bool  `json:"active" yaml:"active"`
}

func (r seedRecord) user() User {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return User{
		ID:       r.ID,
		Username: r.Username,
		Password: r.Password,
		Email:    r.Email,
		Active:   active,
	}
}

// LoadSeedFile reads a list of users from a JSON or YAML file on fs.
// The format is chosen by extension; anything other than .yaml/.yml is JSON.
func LoadSeedFile(fs afero.Fs, path string) ([]User, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.App.Debug("Seed file not found", "path", path)
		}
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	users, err := ParseSeed(data, filepath.Ext(path))
	if err != nil {
		logging.App.Debug("Error parsing seed file", "path", path, "error", err)
		return nil, err
	}

	logging.App.Debug("Loaded seed file", "path", path, "users", len(users))
	return users, nil
}

// ParseSeed decodes seed data. ext selects YAML for ".yaml" and ".yml".
func ParseSeed(data []byte, ext string) ([]User, error) {
	var records []seedRecord

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
		}
	}

	users := make([]User, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Username) == "" {
			return nil, fmt.Errorf("%w: record %d has no username", ErrInvalidSeed, i)
		}
		users = append(users, r.user())
	}
	return users, nil
}
