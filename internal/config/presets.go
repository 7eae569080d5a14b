package config

var Presets = map[string]map[string]*Config{
	"gyration": {
		"circle": {
			Profile: "gyration", Integrator: "rk4", Dt: 0.01, Steps: 1000,
			Charge: 1, Mass: 1, Position: Vec{1, 0, 0}, Velocity: Vec{0, 1, 0},
		},
		"helix": {
			Profile: "gyration", Integrator: "rk4", Dt: 0.01, Steps: 3000,
			Charge: 1, Mass: 1, Position: Vec{1, 0, 0}, Velocity: Vec{0, 1, 0.2},
		},
		"electron": {
			Profile: "gyration", Integrator: "rk4", Dt: 0.005, Steps: 2000,
			Charge: -1, Mass: 1, Position: Vec{0, 0, 0}, Velocity: Vec{1, 0, 0},
		},
	},
	"exb": {
		"drift": {
			Profile: "exb", Integrator: "rk4", Dt: 0.01, Steps: 5000,
			Charge: 1, Mass: 1, Position: Vec{0, 0, 0}, Velocity: Vec{0, 1, 0},
		},
		"cycloid": {
			Profile: "exb", Integrator: "rk4", Dt: 0.01, Steps: 5000,
			Charge: 1, Mass: 1, Position: Vec{0, 0, 0}, Velocity: Vec{0, 0, 0},
		},
	},
	"gradient": {
		"drift": {
			Profile: "gradient", Integrator: "rk4", Dt: 0.01, Steps: 5000,
			Charge: 1, Mass: 1, Position: Vec{0, 0, 0}, Velocity: Vec{1, 0, 0},
		},
		"ion_vs_electron": {
			Profile: "gradient", Integrator: "rk4", Dt: 0.01, Steps: 5000,
			Charge: -1, Mass: 1, Position: Vec{0, 0, 0}, Velocity: Vec{1, 0, 0},
		},
	},
}

func GetPreset(profile, preset string) *Config {
	profilePresets, ok := Presets[profile]
	if !ok {
		return nil
	}
	cfg, ok := profilePresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	c.ProgressEvery = DefaultProgressEvery
	return &c
}

func ListPresets(profile string) []string {
	profilePresets, ok := Presets[profile]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(profilePresets))
	for name := range profilePresets {
		names = append(names, name)
	}
	return names
}
