package ftpserver

import (
	"errors"
	"os"

	"github.com/spf13/afero"

	"github.com/sakhura/loginapp/pkg/logging"
)

// ftpClient is the per-session filesystem of an authenticated user. Writes
// are recorded in the access log.
type ftpClient struct {
	afero.Fs
	user string
	home string
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, os.ErrNotExist):
		return "not_found"
	case errors.Is(err, os.ErrPermission):
		return "denied"
	default:
		return "error"
	}
}

// Name implements afero.Fs
func (c *ftpClient) Name() string {
	return "loginapp"
}

// Create implements afero.Fs
func (c *ftpClient) Create(name string) (afero.File, error) {
	f, err := c.Fs.Create(name)
	logging.Access.LogAccess("UPLOAD", c.user, name, status(err))
	return f, err
}

// OpenFile implements afero.Fs
func (c *ftpClient) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := c.Fs.OpenFile(name, flag, perm)
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		logging.Access.LogAccess("UPLOAD", c.user, name, status(err))
	}
	return f, err
}

// Mkdir implements afero.Fs
func (c *ftpClient) Mkdir(name string, perm os.FileMode) error {
	err := c.Fs.Mkdir(name, perm)
	logging.Access.LogAccess("MKDIR", c.user, name, status(err))
	return err
}

// Remove implements afero.Fs
func (c *ftpClient) Remove(name string) error {
	err := c.Fs.Remove(name)
	logging.Access.LogAccess("DELETE", c.user, name, status(err))
	return err
}

// RemoveAll implements afero.Fs
func (c *ftpClient) RemoveAll(path string) error {
	err := c.Fs.RemoveAll(path)
	logging.Access.LogAccess("DELETE", c.user, path, status(err))
	return err
}

// Rename implements afero.Fs
func (c *ftpClient) Rename(oldname, newname string) error {
	err := c.Fs.Rename(oldname, newname)
	logging.Access.LogAccess("RENAME", c.user, oldname, status(err), "to", newname)
	return err
}
