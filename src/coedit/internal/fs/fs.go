package fs

import (
	"os"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

//go:generate mockgen -source=fs.go -destination=fsmock/fs_mock.go -package=fsmock

// CoeditFS wraps the filesystem operations used by coedit. Document content is
// read once at share time and written back by autosave; everything in between
// happens in memory.
type CoeditFS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data string) error
	FileExists(path string) (bool, error)
}

type fsImpl struct{}

// New creates a new CoeditFS.
func New() CoeditFS {
	return fsImpl{}
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) WriteFile(name string, data string) error {
	return os.WriteFile(name, []byte(data), 0644)
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
