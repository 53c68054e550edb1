package shared

import "testing"

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || b == "" {
		t.Fatal("generated ids should not be empty")
	}
	if a == b {
		t.Error("generated ids should be unique")
	}
	if len(a) != 36 {
		t.Errorf("expected a uuid string, got %q", a)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{7, "0:07"},
		{59.9, "0:59"},
		{60, "1:00"},
		{214.5, "3:34"},
		{3600, "60:00"},
		{-5, "0:00"},
	}
	for _, c := range cases {
		if got := FormatClock(c.seconds); got != c.want {
			t.Errorf("FormatClock(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
