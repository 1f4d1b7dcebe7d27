package registry

// builtin is the catalog shipped with pedalboard. Channel counts follow the
// usual stompbox conventions: drives and compressors are mono, modulation and
// ambience effects are stereo, utility plugins cover the odd shapes.
var builtin = []Plugin{
	{URI: "compressor", Name: "Compressor", Category: "dynamics", Inputs: 1, Outputs: 1},
	{URI: "noisegate", Name: "Noise Gate", Category: "dynamics", Inputs: 1, Outputs: 1},
	{URI: "limiter", Name: "Limiter", Category: "dynamics", Inputs: 2, Outputs: 2},

	{URI: "tubescreamer", Name: "Tube Screamer", Category: "drive", Inputs: 1, Outputs: 1},
	{URI: "fuzz", Name: "Fuzz Face", Category: "drive", Inputs: 1, Outputs: 1},
	{URI: "overdrive", Name: "Overdrive", Category: "drive", Inputs: 1, Outputs: 1},
	{URI: "ampsim", Name: "Amp Simulator", Category: "drive", Inputs: 1, Outputs: 1},

	{URI: "chorus", Name: "Stereo Chorus", Category: "modulation", Inputs: 1, Outputs: 2},
	{URI: "flanger", Name: "Flanger", Category: "modulation", Inputs: 2, Outputs: 2},
	{URI: "phaser", Name: "Phaser", Category: "modulation", Inputs: 1, Outputs: 1},
	{URI: "tremolo", Name: "Tremolo", Category: "modulation", Inputs: 2, Outputs: 2},

	{URI: "delay", Name: "Delay", Category: "time", Inputs: 2, Outputs: 2},
	{URI: "reverb", Name: "Reverb", Category: "time", Inputs: 2, Outputs: 2},
	{URI: "cabir", Name: "Cabinet IR", Category: "time", Inputs: 1, Outputs: 1},

	{URI: "eq", Name: "Parametric EQ", Category: "filter", Inputs: 2, Outputs: 2},
	{URI: "wah", Name: "Wah", Category: "filter", Inputs: 1, Outputs: 1},

	{URI: "tuner", Name: "Tuner", Category: "utility", Inputs: 1, Outputs: 0},
	{URI: "tonegen", Name: "Tone Generator", Category: "utility", Inputs: 0, Outputs: 1},
	{URI: "monosum", Name: "Mono Sum", Category: "utility", Inputs: 2, Outputs: 1},
	{URI: "widener", Name: "Stereo Widener", Category: "utility", Inputs: 1, Outputs: 2},
}

// Default returns a new registry holding the built-in catalog.
func Default() *Registry {
	r := New()
	for _, p := range builtin {
		r.MustRegister(p)
	}
	return r
}
