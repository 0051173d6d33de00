package transformcfg

import (
	"testing"

	"server/internal/domain"
)

func TestValidatePerType(t *testing.T) {
	cases := []struct {
		name    string
		typ     domain.TransformationType
		cfg     Config
		wantErr bool
	}{
		{"restore ok", domain.TransformationRestore, Config{Restore: true}, false},
		{"restore missing flag", domain.TransformationRestore, Config{}, true},
		{"fill ok", domain.TransformationFill, Config{FillBackground: true}, false},
		{"remove ok", domain.TransformationRemove, Config{Remove: &RemoveConfig{Prompt: "watch"}}, false},
		{"remove missing prompt", domain.TransformationRemove, Config{Remove: &RemoveConfig{}}, true},
		{"recolor ok", domain.TransformationRecolor, Config{Recolor: &RecolorConfig{Prompt: "shoes", To: "blue"}}, false},
		{"recolor missing color", domain.TransformationRecolor, Config{Recolor: &RecolorConfig{Prompt: "shoes"}}, true},
		{"removeBackground ok", domain.TransformationRemoveBackground, Config{RemoveBackground: true}, false},
		{"unknown type", domain.TransformationType("sharpen"), Config{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate(tc.typ)
			if tc.wantErr && err == nil {
				t.Fatalf("Validate() expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeRecolorDefault(t *testing.T) {
	cfg := Config{Recolor: &RecolorConfig{Prompt: "jacket"}}
	cfg.Normalize(domain.TransformationRecolor)
	if cfg.Recolor.To != DefaultRecolorColor {
		t.Fatalf("Normalize() recolor.to = %q, want %q", cfg.Recolor.To, DefaultRecolorColor)
	}
}

func TestNormalizeDerivesFlagsFromType(t *testing.T) {
	for _, typ := range []domain.TransformationType{
		domain.TransformationRestore,
		domain.TransformationFill,
		domain.TransformationRemoveBackground,
	} {
		cfg := Config{}
		cfg.Normalize(typ)
		if err := cfg.Validate(typ); err != nil {
			t.Fatalf("Validate(%s) after Normalize: %v", typ, err)
		}
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	if _, err := Unmarshal([]byte(`{"sharpen":{"amount":2}}`)); err == nil {
		t.Fatalf("Unmarshal() expected error for unknown field")
	}
	cfg, err := Unmarshal([]byte(`{"remove":{"prompt":"logo","removeShadow":true}}`))
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if cfg.Remove == nil || cfg.Remove.Prompt != "logo" || !cfg.Remove.RemoveShadow {
		t.Fatalf("Unmarshal() decoded %+v", cfg)
	}
}
