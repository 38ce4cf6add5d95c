package cue

// Calibration holds the geometric correction for one output screen.
type Calibration struct {
	EdgeBlendPx        int  `yaml:"edge_blend_px" json:"edge_blend_px"`
	KeystoneHorizontal int  `yaml:"keystone_horizontal" json:"keystone_horizontal"`
	KeystoneVertical   int  `yaml:"keystone_vertical" json:"keystone_vertical"`
	Mask               Mask `yaml:"mask" json:"mask"`
}

// Mask is an optional rectangular inset applied to the output.
type Mask struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Left    int  `yaml:"left" json:"left"`
	Top     int  `yaml:"top" json:"top"`
	Right   int  `yaml:"right" json:"right"`
	Bottom  int  `yaml:"bottom" json:"bottom"`
}

// IsZero reports whether the calibration applies no correction.
func (c Calibration) IsZero() bool {
	return c == Calibration{}
}
