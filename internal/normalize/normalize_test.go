package normalize

import (
	"testing"

	"github.com/pfrederiksen/tvfixtures/internal/config"
)

func TestCleanName(t *testing.T) {
	n := New(config.DefaultStopwords)

	tests := []struct {
		in   string
		want string
	}{
		{"AC Milan", "milan"},
		{"FC Bayern München", "bayern münchen"},
		{"Inter vs. Juventus", "inter juventus"},
		{"Real Madrid v Barcelona", "real madrid barcelona"},
		{"Paris Saint-Germain", "paris saint germain"},
		{"Borussia M'gladbach", "borussia m'gladbach"},
		{"Club Atlético de Madrid", "atlético madrid"},
		{"The Strongest (BOL)", "strongest bol"},
		{"Sparta Praha: U19", "sparta praha u19"},
		{"versus", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := n.CleanName(tt.in); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanName_CustomStopwords(t *testing.T) {
	n := New([]string{" SK ", "Wien"})
	if got := n.CleanName("SK Rapid Wien"); got != "rapid" {
		t.Errorf("CleanName() = %q, want rapid", got)
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"milan", "milan", 100},
		{"inter", "internazionale", 52},
		{"manchester united", "manchester city", 81},
		{"bayern munchen", "bayern munich", 88},
		{"juventus", "juventus turin", 100},
		{"united manchester", "manchester united", 100},
		{"rapid wien", "sturm graz", 30},
		{"real madrid", "barcelona", 40},
		{"", "milan", 0},
		{"", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := TokenSetRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"milan", "milan", 100},
		{"Milan AC", "ac milan", 100},
		{"inter", "internazionale", 52},
		{"abc", "xyz", 0},
		{"", "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			if got := SequenceRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("SequenceRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRatios_SymmetricAndReflexive(t *testing.T) {
	n := New(config.DefaultStopwords)
	names := []string{
		"AC Milan", "Milan", "Inter", "Internazionale", "Bayern München",
		"Bayern Munich", "Rapid Wien", "SK Rapid", "Sturm Graz", "Paris Saint-Germain",
		"PSG", "Manchester United", "Manchester City", "FC", "",
	}

	for _, name := range []string{"token_set", "sequence"} {
		ratio := RatioByName(name)
		t.Run(name, func(t *testing.T) {
			for _, a := range names {
				ca := n.CleanName(a)
				if got := ratio(ca, ca); got != 100 {
					t.Errorf("ratio(%q, %q) = %d, want 100", ca, ca, got)
				}
				for _, b := range names {
					cb := n.CleanName(b)
					ab, ba := ratio(ca, cb), ratio(cb, ca)
					if ab != ba {
						t.Errorf("ratio(%q, %q) = %d but ratio(%q, %q) = %d", ca, cb, ab, cb, ca, ba)
					}
					if ab < 0 || ab > 100 {
						t.Errorf("ratio(%q, %q) = %d out of range", ca, cb, ab)
					}
				}
			}
		})
	}
}
