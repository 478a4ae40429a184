package config

import (
	"fmt"

	"github.com/kilianp07/school/core/factory"
)

// NotifyConfig lists the notification backends, e.g.
//
//	notify:
//	  backends:
//	    - type: command
//	      conf: {argv: [notify-send]}
//	    - type: mqtt
//	      conf: {broker: "tcp://localhost:1883", topic: "school/notify"}
type NotifyConfig struct {
	Backends []factory.ModuleConfig `json:"backends"`
}

func (c NotifyConfig) Validate() error {
	for i, b := range c.Backends {
		if b.Type == "" {
			return fmt.Errorf("backend %d has no type", i)
		}
	}
	return nil
}
