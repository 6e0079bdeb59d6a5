package passage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/speedtype/internal/model"
)

// Pack is a user-supplied set of passages keyed by tier.
type Pack struct {
	Easy   []string `yaml:"easy"`
	Medium []string `yaml:"medium"`
	Hard   []string `yaml:"hard"`
}

// Tiers returns the non-empty tiers of the pack.
func (p Pack) Tiers() map[model.Tier][]string {
	out := map[model.Tier][]string{}
	if len(p.Easy) > 0 {
		out[model.TierEasy] = p.Easy
	}
	if len(p.Medium) > 0 {
		out[model.TierMedium] = p.Medium
	}
	if len(p.Hard) > 0 {
		out[model.TierHard] = p.Hard
	}
	return out
}

// LoadPack reads a YAML passage pack from path.
func LoadPack(path string) (Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, err
	}
	return ParsePack(data)
}

// ParsePack decodes a YAML passage pack. Unknown keys are rejected.
func ParsePack(data []byte) (Pack, error) {
	var pack Pack
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pack); err != nil {
		if errors.Is(err, io.EOF) {
			return Pack{}, fmt.Errorf("passage pack is empty")
		}
		return Pack{}, fmt.Errorf("failed to decode passage pack: %w", err)
	}
	if len(pack.Tiers()) == 0 {
		return Pack{}, fmt.Errorf("passage pack is empty")
	}
	return pack, nil
}
