package command

import (
	"fmt"
	"net"
	"strconv"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-wilds/internal/health"
)

// HealthConfig configures the HTTP health surface. A zero port disables it.
type HealthConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port"`
}

func (c *HealthConfig) validate() error {
	el := errors.NewErrorList()
	if c.Port < 0 || c.Port > 65535 {
		el.Add(fmt.Errorf("health: port %d out of range", c.Port))
	}
	return el.Err()
}

func (c *HealthConfig) Enabled() bool {
	return c.Port != 0
}

func (c *HealthConfig) BuildHealthServer(stats health.Stats) *health.Server {
	return health.NewServer(net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), stats)
}
