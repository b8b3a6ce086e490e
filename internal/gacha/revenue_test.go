package gacha

import (
	"math"
	"testing"
)

func TestBannerRevenueFormula(t *testing.T) {
	b := testBanner(t, nil) // default 300 gems per pull
	got := BannerRevenue(b, 12.5, 1000, 0.01)
	want := 12.5 * 1000 * 300 * 0.01
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("revenue = %v, want %v", got, want)
	}
}

func TestBannerRevenueLinearInUsers(t *testing.T) {
	b := testBanner(t, nil)
	base := BannerRevenue(b, 8, 100, 0.01)
	tenX := BannerRevenue(b, 8, 1000, 0.01)
	if math.Abs(tenX-10*base) > 1e-9 {
		t.Fatalf("10x users: %v, want %v", tenX, 10*base)
	}
}

func TestBannerRevenueZeroFactors(t *testing.T) {
	b := testBanner(t, nil)
	if got := BannerRevenue(b, 0, 1000, 0.01); got != 0 {
		t.Fatalf("zero pulls per user gave %v", got)
	}
	if got := BannerRevenue(b, 8, 0, 0.01); got != 0 {
		t.Fatalf("zero users gave %v", got)
	}
	if got := BannerRevenue(b, -1, 1000, 0.01); got != 0 {
		t.Fatalf("negative input gave %v", got)
	}
}
