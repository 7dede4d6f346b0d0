package imaging

// Preset bounds the transcode per upload surface: avatars stay small,
// covers and marker photos keep more detail at a lower quality factor.
type Preset struct {
	MaxDimension int
	Quality      int
}

var presets = map[string]Preset{
	"avatar": {MaxDimension: 400, Quality: 85},
	"cover":  {MaxDimension: 1200, Quality: 85},
	"marker": {MaxDimension: 1200, Quality: 80},
}

// PresetFor returns the transcode parameters for an upload kind.
func PresetFor(kind string) (Preset, bool) {
	p, ok := presets[kind]
	return p, ok
}
