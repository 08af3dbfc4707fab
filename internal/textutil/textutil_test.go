package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Plain Title", "Plain Title"},
		{"AC/DC: Back in Black", "AC-DC- Back in Black"},
		{`What? <Why> "How" |Who|`, "What Why How Who"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.input); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"/dev/sr0", "dev_sr0"},
		{"DEV-cdrom", "dev-cdrom"},
		{"  ", "unknown"},
		{"///", "unknown"},
		{"already_safe-123", "already_safe-123"},
	}
	for _, tc := range cases {
		if got := SanitizeToken(tc.input); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestContainerTitle(t *testing.T) {
	cases := []struct {
		artist string
		album  string
		want   string
	}{
		{"Miles Davis", "Kind of Blue", "Miles Davis - Kind of Blue"},
		{"", "", "Unknown Album"},
		{"Miles Davis", "", "Miles Davis"},
		{"", "Kind of Blue", "Kind of Blue"},
		{"MILES DAVIS", "kind of blue", "Miles Davis - Kind Of Blue"},
		{"  spaced   out  ", "album", "Spaced Out - Album"},
	}
	for _, tc := range cases {
		if got := ContainerTitle(tc.artist, tc.album); got != tc.want {
			t.Errorf("ContainerTitle(%q, %q) = %q, want %q", tc.artist, tc.album, got, tc.want)
		}
	}
}

func TestNormalizeTitlePreservesMixedCase(t *testing.T) {
	// Mixed-case input is deliberate styling and passes through untouched.
	if got := NormalizeTitle("tHe StRoKes"); got != "tHe StRoKes" {
		t.Fatalf("NormalizeTitle altered mixed-case input: %q", got)
	}
}
