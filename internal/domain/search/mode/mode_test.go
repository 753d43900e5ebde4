package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{Search, Browse}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "hybrid", "SEARCH"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestFor(t *testing.T) {
	cases := map[string]Mode{
		"":           Browse,
		"   ":        Browse,
		"\t\n":       Browse,
		"shoes":      Search,
		"  a ":       Search,
		"under $100": Search,
	}
	for q, want := range cases {
		if got := For(q); got != want {
			t.Errorf("For(%q) = %q, want %q", q, got, want)
		}
	}
}
