package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRecompute(t *testing.T) {
	tests := []struct {
		name                       string
		drink, staff, atmo, value  int
		want                       float64
		wantNil                    bool
	}{
		{name: "all four present", drink: 8, staff: 6, atmo: 7, value: 9, want: 7.5},
		{name: "single rating", drink: 9, want: 9},
		{name: "partial ratings ignore zeros", drink: 8, atmo: 7, want: 7.5},
		{name: "rounding to one decimal", drink: 8, staff: 8, atmo: 9, want: 8.3},
		{name: "no ratings", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Review{
				DrinkQuality:    tt.drink,
				StaffCompetence: tt.staff,
				Atmosphere:      tt.atmo,
				Value:           tt.value,
			}
			r.Recompute()
			if tt.wantNil {
				assert.Nil(t, r.Overall)
				return
			}
			require.NotNil(t, r.Overall)
			assert.Equal(t, tt.want, *r.Overall)
		})
	}
}

func TestRecomputeOverridesStoredValue(t *testing.T) {
	bogus := 1.0
	r := Review{DrinkQuality: 10, Overall: &bogus}
	r.Recompute()
	require.NotNil(t, r.Overall)
	assert.Equal(t, 10.0, *r.Overall)
}
