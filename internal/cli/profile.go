package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lk2023060901/myai/internal/client"
	"gopkg.in/yaml.v3"
)

const profileFile = "config.yaml"

// Profile is the user-editable CLI configuration.
type Profile struct {
	Server client.Config `yaml:"server"`
}

func profilePath(dir string) string {
	return filepath.Join(dir, profileFile)
}

// LoadProfile reads path. A missing file yields the defaults.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{Server: *client.DefaultConfig()}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Save writes the profile to path.
func (p *Profile) Save(path string) error {
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure profile dir: %w", err)
	}
	return os.WriteFile(path, raw, 0o600)
}
