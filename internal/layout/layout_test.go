package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		ndim   int
		layout string
		want   DimDesc
	}{
		{"empty 1D", 1, "", DimDesc{0, 1, false, false}},
		{"empty 2D", 2, "", DimDesc{0, 2, false, false}},
		{"empty 3D", 3, "", DimDesc{0, 3, false, false}},
		{"channel-last image", 3, "HWC", DimDesc{0, 2, true, false}},
		{"channel-last volume", 4, "DHWC", DimDesc{0, 3, true, false}},
		{"plain image", 2, "HW", DimDesc{0, 2, false, false}},
		{"channel-first image", 3, "CHW", DimDesc{1, 2, false, true}},
		{"sequence of channel-last images", 4, "FHWC", DimDesc{1, 2, true, true}},
		{"sequence without channels", 3, "FHW", DimDesc{1, 2, false, true}},
		{"channel-first sequence", 4, "CFHW", DimDesc{2, 2, false, true}},
		{"frame-first channel-first", 4, "FCHW", DimDesc{2, 2, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ndim, tt.layout)
			if err != nil {
				t.Fatalf("Parse(%d, %q) failed: %v", tt.ndim, tt.layout, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%d, %q) mismatch (-want +got):\n%s", tt.ndim, tt.layout, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		ndim   int
		layout string
	}{
		{"empty layout with too many axes", 4, ""},
		{"layout rank mismatch", 3, "HW"},
		{"interior channel", 3, "HCW"},
		{"trailing frame", 4, "HWCF"},
		{"frame after data axes", 3, "HFW"},
		{"channel-first and interior channel", 4, "CHCW"},
		{"prefix longer than two", 5, "CFFHW"},
		{"too many data axes", 4, "DHWX"},
		{"layout with only channel axis", 1, "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.ndim, tt.layout); err == nil {
				t.Errorf("Parse(%d, %q) should have failed", tt.ndim, tt.layout)
			}
		})
	}
}

// The prefix scan consumes any run of leading 'C' and 'F' markers, so a
// sequence needs no channel marker at all and "FC" works as well as "CF".
// Both channel-first and channel-last may even appear together; the leading
// 'C' then just becomes part of the repeat prefix.
func TestParsePrefixCombinations(t *testing.T) {
	got, err := Parse(5, "CFHWC")
	if err != nil {
		t.Fatalf("Parse(5, \"CFHWC\") failed: %v", err)
	}
	want := DimDesc{AxesStart: 2, AxesCount: 2, HasChannels: true, IsSequence: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse(5, \"CFHWC\") mismatch (-want +got):\n%s", diff)
	}
}
