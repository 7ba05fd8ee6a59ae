package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		name      string
		workgroup [3]uint32
		problem   [3]uint32
		want      [3]uint32
	}{
		{
			name:      "exact multiple",
			workgroup: [3]uint32{64, 1, 1},
			problem:   [3]uint32{128, 1, 1},
			want:      [3]uint32{2, 1, 1},
		},
		{
			name:      "rounds up per axis",
			workgroup: [3]uint32{8, 8, 1},
			problem:   [3]uint32{100, 50, 1},
			want:      [3]uint32{13, 7, 1},
		},
		{
			name:      "problem smaller than workgroup",
			workgroup: [3]uint32{64, 1, 1},
			problem:   [3]uint32{1, 1, 1},
			want:      [3]uint32{1, 1, 1},
		},
		{
			name:      "zero workgroup axis treated as one",
			workgroup: [3]uint32{64, 0, 0},
			problem:   [3]uint32{64, 3, 2},
			want:      [3]uint32{1, 3, 2},
		},
		{
			name:      "zero problem axis needs no workgroups",
			workgroup: [3]uint32{8, 8, 8},
			problem:   [3]uint32{16, 0, 8},
			want:      [3]uint32{2, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DispatchSize(tt.workgroup, tt.problem))
		})
	}
}
