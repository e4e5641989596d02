package util

import "testing"

func TestParseSize(t *testing.T) {
	const fb = 7
	cases := map[string]int64{
		"64KB":            64 << 10,
		"64k":             64 << 10,
		"1MB":             1 << 20,
		"3m":              3 << 20,
		"2GB":             2 << 30,
		"1024":            1024,
		"512B":            512,
		"  10 mb  ":       10 << 20,
		"":                fb,
		"lots":            fb,
		"-1KB":            fb,
		"1.5MB":           fb,
		"5TB":             fb,
		"9999999999999GB": fb,
	}
	for in, want := range cases {
		if got := ParseSize(in, fb); got != want {
			t.Errorf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("postgres://authgate:hunter2@db:5432/users", 11); got != "postgres://***" {
		t.Errorf("dsn = %q", got)
	}
	for _, s := range []string{"", "short"} {
		if got := MaskSecret(s, 10); got != "***" {
			t.Errorf("MaskSecret(%q) = %q", s, got)
		}
	}
	if MaskSecret("abc", -1) != "***" {
		t.Error("negative keep should hide everything")
	}
}
