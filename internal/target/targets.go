// Package target holds the catalogue of known target boards. Each profile
// records the symbols and transfer parameters the flashing protocol needs:
// the firmware's staging hook to break on, the RAM relay buffer, the
// flash-copy routine and the chunk geometry they were built with.
package target

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var targetsYAML []byte

// Profile describes one known target board.
type Profile struct {
	// Name is the profile identifier used on the command line
	Name string `yaml:"name"`

	// Description is the human-readable board description
	Description string `yaml:"description"`

	// BreakSymbol is the firmware function to break on before uploading,
	// so the target is parked somewhere the RAM buffer is safe to overwrite
	BreakSymbol string `yaml:"break_symbol"`

	// BufferName is the RAM buffer symbol used as the chunk relay point
	BufferName string `yaml:"buffer_name"`

	// CopyFunc is the firmware routine that copies the buffer into
	// external flash and returns the wraparound checksum
	CopyFunc string `yaml:"copy_func"`

	// ChunkSize is the transfer unit; must not exceed the RAM buffer size
	ChunkSize int `yaml:"chunk_size"`

	// FlashBase is the default offset in external flash
	FlashBase uint32 `yaml:"flash_base"`

	// Verified indicates whether this profile has been exercised on
	// hardware
	Verified bool `yaml:"verified"`

	// Notes contains additional information about this board
	Notes string `yaml:"notes,omitempty"`
}

// Catalogue holds all known target profiles.
type Catalogue struct {
	Profiles []*Profile

	index map[string]*Profile
}

type catalogueContainer struct {
	Targets []*Profile `yaml:"targets"`
}

var (
	globalCatalogue     *Catalogue
	globalCatalogueOnce sync.Once
	globalCatalogueErr  error
)

// Load parses the embedded catalogue. Safe to call repeatedly; the
// catalogue is parsed only once.
func Load() (*Catalogue, error) {
	globalCatalogueOnce.Do(func() {
		globalCatalogue, globalCatalogueErr = loadInternal()
	})
	return globalCatalogue, globalCatalogueErr
}

func loadInternal() (*Catalogue, error) {
	var container catalogueContainer
	if err := yaml.Unmarshal(targetsYAML, &container); err != nil {
		return nil, fmt.Errorf("failed to parse targets.yaml: %w", err)
	}

	c := &Catalogue{
		Profiles: container.Targets,
		index:    make(map[string]*Profile),
	}
	for _, p := range c.Profiles {
		c.index[p.Name] = p
	}
	return c, nil
}

// Get retrieves a profile by name. Returns nil, false if unknown.
func (c *Catalogue) Get(name string) (*Profile, bool) {
	p, ok := c.index[name]
	return p, ok
}

// Names returns the profile names in catalogue order.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// String returns a one-line description of the profile.
func (p *Profile) String() string {
	verified := ""
	if p.Verified {
		verified = " (verified)"
	}
	return fmt.Sprintf("%s - %s%s", p.Name, p.Description, verified)
}

// UnknownTargetError is returned for a profile name not in the catalogue.
type UnknownTargetError struct {
	// Name is the requested profile name
	Name string
	// Available lists known profile names
	Available []string
}

func (e *UnknownTargetError) Error() string {
	list := ""
	for _, n := range e.Available {
		list += "  - " + n + "\n"
	}
	if list == "" {
		list = "  (none)\n"
	}
	return fmt.Sprintf("unknown target profile: %s\n\nKnown targets:\n%s"+
		"You can also skip --target and pass --buffer, --copy-func and --break-at explicitly.",
		e.Name, list)
}
