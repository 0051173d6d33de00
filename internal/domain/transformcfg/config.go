package transformcfg

import (
	"encoding/json"
	"fmt"
	"strings"

	"server/internal/domain"
)

// RemoveConfig describes an object-removal transformation.
type RemoveConfig struct {
	Prompt       string `json:"prompt"`
	RemoveShadow bool   `json:"removeShadow"`
	Multiple     bool   `json:"multiple"`
}

// RecolorConfig describes an object-recoloring transformation.
type RecolorConfig struct {
	Prompt   string `json:"prompt"`
	To       string `json:"to"`
	Multiple bool   `json:"multiple"`
}

// Config is the nested transformation configuration forwarded to the image
// provider. Exactly the section matching the transformation type is set.
type Config struct {
	Restore          bool           `json:"restore,omitempty"`
	FillBackground   bool           `json:"fillBackground,omitempty"`
	Remove           *RemoveConfig  `json:"remove,omitempty"`
	Recolor          *RecolorConfig `json:"recolor,omitempty"`
	RemoveBackground bool           `json:"removeBackground,omitempty"`
}

const (
	// DefaultRecolorColor is applied when a recolor request omits the target color.
	DefaultRecolorColor = "red"
	// DefaultAspectRatio is used for generative fill when the request omits one.
	DefaultAspectRatio = "1:1"
)

var allowedAspectRatios = map[string]struct{}{
	"1:1":  {},
	"3:4":  {},
	"9:16": {},
}

// AspectRatioAllowed reports whether the ratio is accepted for generative fill.
func AspectRatioAllowed(ratio string) bool {
	_, ok := allowedAspectRatios[ratio]
	return ok
}

// Normalize fills provider defaults for the given transformation type. The
// flag-only transformations are fully derived from the type, so a request may
// omit the configuration entirely.
func (c *Config) Normalize(t domain.TransformationType) {
	if c == nil {
		return
	}
	switch t {
	case domain.TransformationRestore:
		c.Restore = true
	case domain.TransformationFill:
		c.FillBackground = true
	case domain.TransformationRemoveBackground:
		c.RemoveBackground = true
	case domain.TransformationRecolor:
		if c.Recolor != nil && c.Recolor.To == "" {
			c.Recolor.To = DefaultRecolorColor
		}
	}
}

// Validate ensures the configuration matches the transformation type.
func (c Config) Validate(t domain.TransformationType) error {
	switch t {
	case domain.TransformationRestore:
		if !c.Restore {
			return fmt.Errorf("restore flag is required")
		}
	case domain.TransformationFill:
		if !c.FillBackground {
			return fmt.Errorf("fillBackground flag is required")
		}
	case domain.TransformationRemove:
		if c.Remove == nil || strings.TrimSpace(c.Remove.Prompt) == "" {
			return fmt.Errorf("remove.prompt is required")
		}
	case domain.TransformationRecolor:
		if c.Recolor == nil || strings.TrimSpace(c.Recolor.Prompt) == "" {
			return fmt.Errorf("recolor.prompt is required")
		}
		if strings.TrimSpace(c.Recolor.To) == "" {
			return fmt.Errorf("recolor.to is required")
		}
	case domain.TransformationRemoveBackground:
		if !c.RemoveBackground {
			return fmt.Errorf("removeBackground flag is required")
		}
	default:
		return fmt.Errorf("unsupported transformation type %q", t)
	}
	return nil
}

// Marshal renders the configuration for JSONB persistence.
func (c Config) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal decodes a persisted configuration, rejecting unknown fields so
// externally supplied shapes fail at the boundary instead of defaulting.
func Unmarshal(data []byte) (*Config, error) {
	if len(data) == 0 {
		return &Config{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode transformation config: %w", err)
	}
	return &cfg, nil
}
