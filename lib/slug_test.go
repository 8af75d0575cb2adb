package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Sourdough   Loaf ", "sourdough-loaf"},
		{"מגשי אירוח", "מגשי-אירוח"},
		{"Café & Croissant!", "caf--croissant"},
		{"עוגת גבינה (אפויה)", "עוגת-גבינה-אפויה"},
		{"Rye-1700000000001", "rye-1700000000001"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
