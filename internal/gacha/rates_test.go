package gacha

import (
	"errors"
	"math"
	"testing"
)

// fixedRNG always returns the same uniform value.
type fixedRNG struct{ u float64 }

func (f fixedRNG) Float64() float64 { return f.u }
func (f fixedRNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(f.u * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func TestRateTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		rates   RateTable
		wantErr bool
	}{
		{"default table", DefaultRates, false},
		{"within tolerance", RateTable{Common: 0.7005, Uncommon: 0.2, Rare: 0.07, Epic: 0.02, Legendary: 0.01}, false},
		{"sum too low", RateTable{Common: 0.5, Legendary: 0.01}, true},
		{"sum too high", RateTable{Common: 0.8, Uncommon: 0.2, Rare: 0.07, Epic: 0.02, Legendary: 0.01}, true},
		{"negative entry", RateTable{Common: 1.1, Legendary: -0.1}, true},
		{"nan entry", RateTable{Common: math.NaN(), Legendary: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rates.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidRates) {
				t.Fatalf("want ErrInvalidRates, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSoftPityStart(t *testing.T) {
	tests := []struct{ pity, want int }{
		{90, 67},
		{80, 60},
		{40, 30},
		{1, 0},
	}
	for _, tt := range tests {
		if got := SoftPityStart(tt.pity); got != tt.want {
			t.Errorf("SoftPityStart(%d) = %d, want %d", tt.pity, got, tt.want)
		}
	}
}

func TestEffectiveRatesHardPity(t *testing.T) {
	ramp := SoftRamp{Target: 0.5, Easing: EaseLinear}
	got := EffectiveRates(DefaultRates, 89, 90, ramp)
	if got[Legendary] != 1 {
		t.Fatalf("hard pity legendary rate = %v, want 1", got[Legendary])
	}
	for _, r := range Rarities {
		if r != Legendary && got[r] != 0 {
			t.Fatalf("hard pity rate for %s = %v, want 0", r, got[r])
		}
	}
	// degenerate pityCounter=1: pity 0 is already the hard pull
	if got := EffectiveRates(DefaultRates, 0, 1, ramp); got[Legendary] != 1 {
		t.Fatalf("pityCounter=1 should hard-pity at pity 0")
	}
}

func TestEffectiveRatesOutsideWindow(t *testing.T) {
	ramp := SoftRamp{Target: 0.5, Easing: EaseLinear}
	for _, pity := range []int{0, 10, 50, 66} {
		got := EffectiveRates(DefaultRates, pity, 90, ramp)
		for _, r := range Rarities {
			if got[r] != DefaultRates[r] {
				t.Fatalf("pity %d: rate for %s = %v, want base %v", pity, r, got[r], DefaultRates[r])
			}
		}
	}
}

func TestEffectiveRatesBoundaries(t *testing.T) {
	ramp := SoftRamp{Target: 0.5, Easing: EaseLinear}
	// ramp start equals the base rate
	start := SoftPityStart(90)
	got := EffectiveRates(DefaultRates, start, 90, ramp)
	if math.Abs(got[Legendary]-DefaultRates[Legendary]) > 1e-12 {
		t.Fatalf("rate at window start = %v, want base %v", got[Legendary], DefaultRates[Legendary])
	}
	// ramp top reaches the target at pityCounter-2
	got = EffectiveRates(DefaultRates, 88, 90, ramp)
	if math.Abs(got[Legendary]-0.5) > 1e-12 {
		t.Fatalf("rate at pityCounter-2 = %v, want 0.5", got[Legendary])
	}
}

func TestEffectiveRatesSumToOne(t *testing.T) {
	for _, easing := range []Easing{EaseLinear, EaseOutQuad, EaseInOutCubic} {
		ramp := SoftRamp{Target: 0.5, Easing: easing}
		for pity := 0; pity < 90; pity++ {
			got := EffectiveRates(DefaultRates, pity, 90, ramp)
			sum := 0.0
			for _, r := range Rarities {
				sum += got[r]
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("easing %s pity %d: rates sum to %v", easing, pity, sum)
			}
		}
	}
}

func TestEffectiveRatesMonotonic(t *testing.T) {
	for _, easing := range []Easing{EaseLinear, EaseOutQuad, EaseInOutCubic} {
		ramp := SoftRamp{Target: 0.5, Easing: easing}
		prev := 0.0
		for pity := 0; pity < 90; pity++ {
			p := EffectiveRates(DefaultRates, pity, 90, ramp)[Legendary]
			if p < prev {
				t.Fatalf("easing %s: legendary rate dropped from %v to %v at pity %d", easing, prev, p, pity)
			}
			prev = p
		}
	}
}

func TestDrawRarityCumulativeOrder(t *testing.T) {
	tests := []struct {
		u    float64
		want Rarity
	}{
		{0.0, Common},
		{0.35, Common},
		{0.75, Uncommon},
		{0.85, Uncommon},
		{0.92, Rare},
		{0.975, Epic},
		{0.995, Legendary},
		{0.9999, Legendary},
	}
	for _, tt := range tests {
		if got := DrawRarity(DefaultRates, fixedRNG{tt.u}); got != tt.want {
			t.Errorf("u=%v: got %s, want %s", tt.u, got, tt.want)
		}
	}
}
