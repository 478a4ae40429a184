// Package notify delivers short desktop or remote notifications through the
// configured backends.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kilianp07/school/core/factory"
	"github.com/kilianp07/school/infra/logger"
	"github.com/kilianp07/school/infra/mqtt"
	"github.com/kilianp07/school/infra/process"
)

// Notifier sends one notification.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }

// Command runs a program with the title and body appended to its arguments,
// e.g. notify-send or dunstify.
type Command struct {
	Argv   []string
	Runner process.Runner
}

// Notify runs the command and waits for it.
func (c *Command) Notify(ctx context.Context, title, body string) error {
	if len(c.Argv) == 0 {
		return errors.New("notify command is empty")
	}
	argv := append(append([]string(nil), c.Argv...), title, body)
	return c.Runner.Run(ctx, process.Command{Argv: argv})
}

// Publisher is the part of the MQTT publisher used here.
type Publisher interface {
	Publish(ctx context.Context, title, body string) (string, error)
	Close() error
}

// MQTT publishes notifications to a broker topic.
type MQTT struct {
	Publisher Publisher
}

// Notify publishes the notification.
func (m *MQTT) Notify(ctx context.Context, title, body string) error {
	_, err := m.Publisher.Publish(ctx, title, body)
	return err
}

// Close disconnects from the broker.
func (m *MQTT) Close() error { return m.Publisher.Close() }

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Notify calls every notifier and joins their errors.
func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes the notifiers holding a connection.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if c, ok := n.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Deps are the collaborators backends may need.
type Deps struct {
	Runner process.Runner
	Logger logger.Logger
	// Connect opens the MQTT publisher. Defaults to mqtt.NewPublisher.
	Connect func(mqtt.Config, logger.Logger) (Publisher, error)
}

// NewRegistry returns the registry of known backends bound to deps.
func NewRegistry(deps Deps) *factory.Registry[Notifier] {
	if deps.Connect == nil {
		deps.Connect = func(cfg mqtt.Config, log logger.Logger) (Publisher, error) {
			return mqtt.NewPublisher(cfg, log)
		}
	}
	reg := factory.NewRegistry[Notifier]()
	reg.MustRegister("command", func(conf map[string]any) (Notifier, error) {
		var c struct {
			Argv []string `json:"argv"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, fmt.Errorf("command notifier: %w", err)
		}
		if len(c.Argv) == 0 {
			return nil, errors.New("command notifier: argv is required")
		}
		return &Command{Argv: c.Argv, Runner: deps.Runner}, nil
	})
	reg.MustRegister("mqtt", func(conf map[string]any) (Notifier, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		p, err := deps.Connect(c, deps.Logger)
		if err != nil {
			return nil, err
		}
		return &MQTT{Publisher: p}, nil
	})
	reg.MustRegister("nop", func(map[string]any) (Notifier, error) { return Nop{}, nil })
	return reg
}

// New builds the notifier for the configured backends.
func New(cfgs []factory.ModuleConfig, deps Deps) (Notifier, error) {
	reg := NewRegistry(deps)
	switch len(cfgs) {
	case 0:
		return Nop{}, nil
	case 1:
		return reg.Create(cfgs[0])
	}
	multi := make(Multi, 0, len(cfgs))
	for _, c := range cfgs {
		n, err := reg.Create(c)
		if err != nil {
			return nil, err
		}
		multi = append(multi, n)
	}
	return multi, nil
}
