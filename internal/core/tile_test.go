package core

import (
	"errors"
	"testing"
)

func TestFailLoad(t *testing.T) {
	ref := ImageRef("/art/img2.jpg")

	state := FailLoad(Displaying{}, ref)
	if !IsFallback(state) {
		t.Fatalf("FailLoad(Displaying) = %v, want fallback", state)
	}

	again := FailLoad(state, ref)
	if again != state {
		t.Errorf("FailLoad(Fallback) = %v, want unchanged %v", again, state)
	}
}

func TestTransition(t *testing.T) {
	ref := ImageRef("/art/img1.jpg")

	tests := []struct {
		name    string
		from    TileState
		to      TileState
		want    TileState
		wantErr error
	}{
		{
			name: "displaying to fallback",
			from: Displaying{},
			to:   Fallback{Ref: ref},
			want: Fallback{Ref: ref},
		},
		{
			name: "displaying stays displaying",
			from: Displaying{},
			to:   Displaying{},
			want: Displaying{},
		},
		{
			name: "fallback is idempotent",
			from: Fallback{Ref: ref},
			to:   Fallback{Ref: ref},
			want: Fallback{Ref: ref},
		},
		{
			name:    "fallback never returns to displaying",
			from:    Fallback{Ref: ref},
			to:      Displaying{},
			want:    Fallback{Ref: ref},
			wantErr: ErrIrreversibleFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Transition() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Transition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransitionFallbackRefMismatch(t *testing.T) {
	_, err := Transition(Fallback{Ref: "/a.jpg"}, Fallback{Ref: "/b.jpg"})
	if err == nil {
		t.Error("expected error for mismatched fallback refs")
	}
}

func TestPlaceholderText(t *testing.T) {
	tests := []struct {
		ref  ImageRef
		want string
	}{
		{"/art/img2.jpg", "/public/art/img2.jpg not found"},
		{"art/img3.jpg", "/public/art/img3.jpg not found"},
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg not found"},
	}

	for _, tt := range tests {
		t.Run(string(tt.ref), func(t *testing.T) {
			if got := PlaceholderText(tt.ref); got != tt.want {
				t.Errorf("PlaceholderText(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
