package instance

import (
	"os"

	"github.com/angelmondragon/orderlens/pkg/env"
)

// GetID returns the identifier of the running process for log context. ORDERLENS_INSTANCE_ID
// wins, then the platform's DYNO, then the host name.
func GetID() string {
	if id := env.Get("ORDERLENS_INSTANCE_ID", ""); id != "" {
		return id
	}
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
