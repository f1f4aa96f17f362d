package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vitalsInput struct {
	BloodPressure string `validate:"omitempty,bloodpressure"`
	Zone          string `validate:"omitempty,zone"`
}

func TestBloodPressureRule(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	tests := []struct {
		bp    string
		valid bool
	}{
		{"120/80", true},
		{"90/60", true},
		{"150/100", true},
		{"", true},
		{"120", false},
		{"120-80", false},
		{"abc/def", false},
		{"1200/80", false},
	}

	for _, tt := range tests {
		err := v.Validate(vitalsInput{BloodPressure: tt.bp})
		if tt.valid {
			assert.NoError(t, err, "bp %q", tt.bp)
		} else {
			assert.Error(t, err, "bp %q", tt.bp)
		}
	}
}

func TestZoneRule(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(vitalsInput{Zone: "purok-3"}))
	assert.Error(t, v.Validate(vitalsInput{Zone: "purok%"}))
	assert.Error(t, v.Validate(vitalsInput{Zone: "purok_a"}))
}
