package world

// Light is a light entity. Key is the document key the light was defined
// under; the descriptor refers to it by that key from its lights list.
type Light struct {
	Key string `yaml:"-" json:"key"`

	Name      string `yaml:"name,omitempty" json:"name"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	Location  Vector `yaml:"location,flow" json:"location"`
	Direction Vector `yaml:"direction,flow" json:"direction"`

	SpotExponent  float64 `yaml:"spot exponent" json:"spot_exponent" validate:"gt=0,lte=1.5708"`
	CutoffAngle   float64 `yaml:"cutoff angle" json:"cutoff_angle" validate:"gt=0,lte=1.5708"`
	ShadowQuality int     `yaml:"shadow quality,omitempty" json:"shadow_quality" validate:"gte=0"`

	Parent *ParentRef `yaml:"parent,omitempty" json:"parent,omitempty"`
}

// lightKeys are the keys every light definition must carry.
var lightKeys = []string{"location", "direction", "spot exponent", "cutoff angle"}

// Camera is a camera entity.
type Camera struct {
	Key string `yaml:"-" json:"key"`

	Name      string `yaml:"name,omitempty" json:"name"`
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	Location Vector `yaml:"location,flow" json:"location"`
	LookAt   Vector `yaml:"look at,flow" json:"look_at"`
	Up       Vector `yaml:"up,flow" json:"up"`

	ClippingPlane ClippingPlane `yaml:"clipping plane,flow" json:"clipping_plane"`
	// FieldViewAngle is nil only for a camera that sets OrthographicViewWidth.
	FieldViewAngle        *float64 `yaml:"field view angle,omitempty" json:"field_view_angle,omitempty" validate:"omitempty,gt=0,lt=3.141592653589793"`
	OrthographicViewWidth *float64 `yaml:"orthographic view width,omitempty" json:"orthographic_view_width,omitempty" validate:"omitempty,gt=0"`

	Monitor int     `yaml:"monitor,omitempty" json:"monitor" validate:"gte=0"`
	Stereo  *Stereo `yaml:"stereo,omitempty" json:"stereo,omitempty"`

	Multipass    bool `yaml:"multipass,omitempty" json:"multipass,omitempty"`
	PublishImage bool `yaml:"publish image,omitempty" json:"publish_image,omitempty"`
	PublishDepth bool `yaml:"publish depth,omitempty" json:"publish_depth,omitempty"`

	Parent *ParentRef `yaml:"parent,omitempty" json:"parent,omitempty"`
}

// cameraKeys are the keys every camera definition must carry.
var cameraKeys = []string{"location", "look at", "up", "clipping plane"}

// Orthographic reports whether the camera sets an orthographic view width.
// Which projection wins when both are set is left to the consumer.
func (c Camera) Orthographic() bool {
	return c.OrthographicViewWidth != nil
}

// ClippingPlane ...
type ClippingPlane struct {
	Near float64 `yaml:"near" json:"near" validate:"gt=0"`
	Far  float64 `yaml:"far" json:"far" validate:"gtfield=Near"`
}

// Stereo ...
type Stereo struct {
	Mode          StereoMode `yaml:"mode" json:"mode"`
	EyeSeparation float64    `yaml:"eye separation" json:"eye_separation" validate:"gte=0"`
	FocalLength   float64    `yaml:"focal length" json:"focal_length" validate:"gt=0"`
}
