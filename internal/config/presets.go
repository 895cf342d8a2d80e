package config

import "sort"

func scenario(name string, dt float64, steps int, autoOrbit bool, bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Dt = dt
	cfg.Steps = steps
	cfg.AutoOrbit = autoOrbit
	cfg.Bodies = bodies
	return cfg
}

var Presets = map[string]*Config{
	"two_body": scenario("two_body", 0.01, 1000, true,
		BodyConfig{Name: "sun", Mass: 1000, Radius: 0, Color: "#ffcc33"},
		BodyConfig{Name: "planet", Mass: 1, Position: [3]float64{100, 0, 0}, Radius: 0, Color: "#3399ff"},
	),
	"head_on": scenario("head_on", 0.01, 2000, false,
		BodyConfig{Name: "left", Mass: 1, Position: [3]float64{-10, 0, 0}, Velocity: [3]float64{1, 0, 0}, Radius: 10, Color: "#ff5555"},
		BodyConfig{Name: "right", Mass: 1, Position: [3]float64{10, 0, 0}, Velocity: [3]float64{-1, 0, 0}, Radius: 10, Color: "#55ff55"},
	),
	"inner_system": scenario("inner_system", 0.01, 5000, true,
		BodyConfig{Name: "sun", Mass: 1000, Radius: 10, Color: "#ffdd44"},
		BodyConfig{Name: "mercury", Mass: 0.5, Position: [3]float64{40, 0, 0}, Radius: 1, Color: "#aaaaaa"},
		BodyConfig{Name: "venus", Mass: 2, Position: [3]float64{0, 70, 0}, Radius: 2, Color: "#eecc88"},
		BodyConfig{Name: "earth", Mass: 2.5, Position: [3]float64{-100, 0, 0}, Radius: 2, Color: "#3399ff"},
		BodyConfig{Name: "mars", Mass: 1, Position: [3]float64{0, -150, 0}, Radius: 1.5, Color: "#dd5533"},
	),
	"five_planets": scenario("five_planets", 0.01, 3000, true,
		BodyConfig{Name: "primary", Mass: 10, Position: [3]float64{20, 20, 0}, Radius: 10, Color: "#ffffff"},
		BodyConfig{Name: "p1", Mass: 10, Position: [3]float64{60, 20, 0}, Radius: 10, Color: "#ff6666"},
		BodyConfig{Name: "p2", Mass: 10, Position: [3]float64{20, 80, 0}, Radius: 10, Color: "#66ff66"},
		BodyConfig{Name: "p3", Mass: 10, Position: [3]float64{-60, 20, 0}, Radius: 10, Color: "#6666ff"},
		BodyConfig{Name: "p4", Mass: 10, Position: [3]float64{20, -80, 0}, Radius: 10, Color: "#ffff66"},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
