package cycles

import (
	"strings"
	"testing"

	"github.com/matzehuels/collatzgraph/pkg/errors"
)

func join(c Cycle) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

func TestFind(t *testing.T) {
	tests := []struct {
		name   string
		k      int64
		length int
		max    int64
		want   []string
	}{
		{"trivial k=1", 1, 1, 101, []string{"1,1"}},
		{"trivial k=3", 3, 1, 101, []string{"1,1"}},
		{"k=5 length 2", 5, 2, 16, []string{"1,3,1"}},
		{"k=5 length 3", 5, 3, 100, []string{"13,33,83,13", "17,43,27,17"}},
		{"k=3 no length 2", 3, 2, 101, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(tt.k, tt.length, tt.max)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(Find()) = %d, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if join(c) != tt.want[i] {
					t.Errorf("cycle %d = %s, want %s", i, join(c), tt.want[i])
				}
				if c.Len() != tt.length {
					t.Errorf("cycle %d Len() = %d, want %d", i, c.Len(), tt.length)
				}
			}
		})
	}
}

func TestFindErrors(t *testing.T) {
	if _, err := Find(4, 1, 10); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Find(k=4) error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := Find(3, 0, 10); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Find(length=0) error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := Find(3, 1, 0); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Find(max=0) error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestPredictAlpha(t *testing.T) {
	tests := []struct {
		k      int64
		length int
		want   int
	}{
		{1, 1, 1},
		{3, 1, 2},
		{3, 2, 4},
		{5, 3, 7},
		{7, 10, 29},
	}
	for _, tt := range tests {
		got, err := PredictAlpha(tt.k, tt.length)
		if err != nil {
			t.Fatalf("PredictAlpha(%d, %d) error = %v", tt.k, tt.length, err)
		}
		if got != tt.want {
			t.Errorf("PredictAlpha(%d, %d) = %d, want %d", tt.k, tt.length, got, tt.want)
		}
	}

	if _, err := PredictAlpha(0, 1); err == nil {
		t.Error("PredictAlpha(0, 1) error = nil, want error")
	}
}
