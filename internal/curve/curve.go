// Package curve implements keyframed response curves used to reshape terrain heights.
package curve

import (
	"fmt"
	"sort"
)

// Key is one curve keyframe with Hermite tangents.
type Key struct {
	Time       float32 `yaml:"time"`
	Value      float32 `yaml:"value"`
	InTangent  float32 `yaml:"in_tangent"`
	OutTangent float32 `yaml:"out_tangent"`
}

// Curve evaluates a piecewise cubic Hermite spline through its keys. Outside the key range
// the curve is clamped to the first/last value.
//
// A Curve caches the last segment it evaluated and is therefore not safe for concurrent use.
// Background tasks must evaluate their own Clone.
type Curve struct {
	keys    []Key
	segment int
}

// New builds a curve from keys, sorting them by time.
func New(keys ...Key) (*Curve, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("curve needs at least one key")
	}
	sorted := append([]Key(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Time == sorted[i-1].Time {
			return nil, fmt.Errorf("duplicate key time %v", sorted[i].Time)
		}
	}
	return &Curve{keys: sorted}, nil
}

// MustNew is New for static key sets.
func MustNew(keys ...Key) *Curve {
	c, err := New(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// Linear returns the identity curve over [0,1].
func Linear() *Curve {
	return MustNew(Key{Time: 0, Value: 0, OutTangent: 1}, Key{Time: 1, Value: 1, InTangent: 1})
}

// EaseIn returns a curve that stays low near 0 and steepens toward 1.
func EaseIn() *Curve {
	return MustNew(Key{Time: 0, Value: 0}, Key{Time: 1, Value: 1, InTangent: 2, OutTangent: 2})
}

// Keys returns a copy of the keyframes.
func (c *Curve) Keys() []Key {
	return append([]Key(nil), c.keys...)
}

// Clone returns an independent curve with the same keys and a fresh evaluation cache.
func (c *Curve) Clone() *Curve {
	return &Curve{keys: c.Keys()}
}

// Evaluate returns the curve value at t.
func (c *Curve) Evaluate(t float32) float32 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= c.keys[0].Time {
		return c.keys[0].Value
	}
	if t >= c.keys[n-1].Time {
		return c.keys[n-1].Value
	}

	i := c.segment
	if i >= n-1 || t < c.keys[i].Time || t > c.keys[i+1].Time {
		i = sort.Search(n, func(k int) bool { return c.keys[k].Time > t }) - 1
		c.segment = i
	}

	k0, k1 := c.keys[i], c.keys[i+1]
	dt := k1.Time - k0.Time
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// MarshalYAML encodes the curve as its key list.
func (c *Curve) MarshalYAML() (any, error) {
	return c.keys, nil
}

// UnmarshalYAML decodes a key list.
func (c *Curve) UnmarshalYAML(unmarshal func(any) error) error {
	var keys []Key
	if err := unmarshal(&keys); err != nil {
		return err
	}
	parsed, err := New(keys...)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}
