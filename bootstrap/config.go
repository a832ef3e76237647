package bootstrap

import (
	"github.com/kbukum/voicemention/config"
)

// Config is the constraint for application configuration types. A struct
// embedding config.ServiceConfig satisfies it once it defines its own
// ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
