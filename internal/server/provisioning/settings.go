package provisioning

import (
	"maps"

	"github.com/dmitrijs2005/freepanel/internal/cryptox"
	"github.com/dmitrijs2005/freepanel/internal/panel"
)

// DefaultNameLimit is the longest server name, in runes, sent to the panel.
const DefaultNameLimit = 20

// accountLastName is the last name given to every panel account.
const accountLastName = "Discord"

// Settings is the static server template and capacity policy. A Service
// copies it at construction; later changes to the caller's value have no
// effect.
type Settings struct {
	NodeID            int64
	EggID             int64
	DockerImage       string
	MaxServersPerNode int
	StartupCommand    string
	Limits            panel.Limits
	Environment       map[string]string
	FeatureLimits     panel.FeatureLimits
	PasswordLength    int
	NameLimit         int
}

func (s Settings) withDefaults() Settings {
	if s.PasswordLength <= 0 {
		s.PasswordLength = cryptox.DefaultPasswordLength
	}
	if s.NameLimit <= 0 {
		s.NameLimit = DefaultNameLimit
	}
	s.Environment = maps.Clone(s.Environment)
	return s
}
