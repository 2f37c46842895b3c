package scenario

import "sort"

func boolPtr(b bool) *bool { return &b }

var builtins = map[string]func() *Scenario{
	"static": func() *Scenario {
		return &Scenario{Name: "static", Description: "no events, fixed frame"}
	},
	"shaker": func() *Scenario {
		return &Scenario{
			Name:        "shaker",
			Description: "viewport shaken sideways, more particles poured in halfway",
			Frame:       FramePath{Kind: "sine", Amplitude: Vec{X: 40}, Frequency: 1.5},
			Events: []Event{
				{At: 5, Commands: []CommandSpec{{Op: "add", Count: 50}}},
			},
		}
	},
	"inflate": func() *Scenario {
		return &Scenario{
			Name:        "inflate",
			Description: "radius grows in steps, then the pit is refilled",
			Events: []Event{
				{At: 2, Commands: []CommandSpec{{Op: "radius", Value: 6}}},
				{At: 4, Commands: []CommandSpec{{Op: "radius", Value: 9}}},
				{At: 6, Commands: []CommandSpec{{Op: "radius", Value: 12}}},
				{At: 8, Commands: []CommandSpec{
					{Op: "delete_all"},
					{Op: "radius", Value: 5},
					{Op: "add", Count: 150},
				}},
			},
		}
	},
	"stir": func() *Scenario {
		return &Scenario{
			Name:        "stir",
			Description: "gravity rotates through the four walls",
			Events: []Event{
				{At: 1, Commands: []CommandSpec{{Op: "gravity", Y: -90.8}}},
				{At: 3, Commands: []CommandSpec{{Op: "gravity", X: 90.8}}},
				{At: 5, Commands: []CommandSpec{{Op: "gravity", Y: 90.8}}},
				{At: 7, Commands: []CommandSpec{{Op: "gravity", X: -90.8}}},
				{At: 9, Commands: []CommandSpec{{Op: "gravity"}}},
			},
		}
	},
	"pause": func() *Scenario {
		return &Scenario{
			Name:        "pause",
			Description: "freeze, edit parameters while frozen, resume",
			Events: []Event{
				{At: 3, Freeze: boolPtr(true)},
				{At: 4, Commands: []CommandSpec{
					{Op: "mass", Value: 4},
					{Op: "dampening", Value: 0.5},
					{Op: "add", Count: 20},
				}},
				{At: 5, Freeze: boolPtr(false)},
			},
		}
	},
}

// Get returns a fresh copy of the named built-in scenario, or nil.
func Get(name string) *Scenario {
	fn, ok := builtins[name]
	if !ok {
		return nil
	}
	return fn()
}

func List() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
