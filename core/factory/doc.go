// Package factory provides a small generic registry used to instantiate
// pluggable components, such as notifier backends or schedule exporters,
// from configuration. Components are selected by a type string and receive a
// map of raw settings that factories decode into typed structs.
//
// Example usage:
//
//	reg := factory.NewRegistry[notify.Notifier]()
//	reg.Register("command", func(conf map[string]any) (notify.Notifier, error) {
//	    var c struct{ Argv []string `json:"argv"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return &notify.Command{Argv: c.Argv}, nil
//	})
//	n, err := reg.Create(factory.ModuleConfig{Type: "command", Conf: map[string]any{"argv": []string{"notify-send"}}})
package factory
