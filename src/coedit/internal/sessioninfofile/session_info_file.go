package sessioninfofile

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/collabforge/coedit/src/coedit/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const _configKeyInfoFile = "sessionInfoFilePath"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// SessionInfoFile manages the contents of a single session info file. It holds
// the join link and listener address of the hosted session so editor tooling
// can discover a running host, and is removed at shutdown.
type SessionInfoFile interface {
	UpdateField(key string, value string) error
}

type module struct {
	infofile     string
	fs           fs.CoeditFS
	logger       *zap.SugaredLogger
	fileContents map[string]string
	mu           sync.Mutex
}

// Params define values to be used by SessionInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	FS        fs.CoeditFS
	Logger    *zap.SugaredLogger
}

// New creates a new SessionInfoFile which manages contents of a single session info file.
func New(p Params) (SessionInfoFile, error) {
	m := module{
		fs:           p.FS,
		logger:       p.Logger,
		fileContents: make(map[string]string),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})

	return &m, nil
}

func (m *module) OnStop(ctx context.Context) error {
	if m.infofile != "" {
		if err := os.Remove(m.infofile); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fileContents[key] = value
	yamlOutput, err := yaml.Marshal(m.fileContents)
	if err != nil {
		return fmt.Errorf("marshalling yaml: %w", err)
	}

	if err := m.fs.WriteFile(m.infofile, string(yamlOutput)); err != nil {
		return fmt.Errorf("creating info file: %w", err)
	}
	m.logger.Infow("session info saved", zap.String("file", m.infofile), zap.String(key, value))
	return nil
}

func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyInfoFile)
	if err := val.Populate(&m.infofile); err != nil {
		// incorrectly formatted config
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}

	if m.infofile == "" {
		// yaml is missing either the key or value
		return fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	return nil
}
