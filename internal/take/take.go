// Package take defines the YAML document the CLI uses to move keyframed
// channels in and out of the analysis core. A take is a flat list of
// (entity, channel) curves with their keyframes; the abstract Curve
// interface stays the only representation the core itself sees.
package take

import (
	"fmt"

	"github.com/ivlev/adjblend/internal/curve"
)

// Take is a captured or authored set of animation channels.
type Take struct {
	Version  string    `yaml:"version"`
	Name     string    `yaml:"name"`
	FPS      int       `yaml:"fps"`
	Channels []Channel `yaml:"channels"`
}

// Channel is one scalar degree of freedom of one entity.
type Channel struct {
	Entity  string `yaml:"entity"`
	Channel string `yaml:"channel"`
	Keys    []Key  `yaml:"keys"`
}

// Key is a single keyframe sample.
type Key struct {
	Frame float64 `yaml:"frame"`
	Value float64 `yaml:"value"`
}

const takeVersion = "1.0"

// Table builds the (entity, channel) -> Curve lookup for the take.
// Curve IDs are "entity/channel", unique within one take.
func (t *Take) Table() *curve.Table {
	table := curve.NewTable()
	for _, ch := range t.Channels {
		keys := make([]curve.Keyframe, len(ch.Keys))
		for i, k := range ch.Keys {
			keys[i] = curve.Keyframe{Frame: k.Frame, Value: k.Value}
		}
		id := fmt.Sprintf("%s/%s", ch.Entity, ch.Channel)
		table.Put(curve.Key{Entity: ch.Entity, Channel: ch.Channel}, curve.NewKeyframeCurve(id, keys))
	}
	return table
}

// FromTable rebuilds a take document from a curve table, capturing any
// values the blending engine wrote back.
func FromTable(name string, fps int, table *curve.Table) *Take {
	t := &Take{Version: takeVersion, Name: name, FPS: fps}
	for _, key := range table.Keys() {
		c, _ := table.Get(key)
		kc, ok := c.(*curve.KeyframeCurve)
		if !ok {
			continue
		}
		channel := Channel{Entity: key.Entity, Channel: key.Channel}
		for _, k := range kc.Keys() {
			channel.Keys = append(channel.Keys, Key{Frame: k.Frame, Value: k.Value})
		}
		t.Channels = append(t.Channels, channel)
	}
	return t
}
