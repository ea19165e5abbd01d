//go:build !integration

package model_test

import (
	"testing"

	"isp-selfcare/internal/domain/model"
)

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		major float64
		want  int64
	}{
		{19.99, 1999},
		{0.01, 1},
		{0.10, 10},
		{100, 10000},
		{4999.99, 499999},
		{0, 0},
		// 29.99 and friends sit just below their true value in float64;
		// truncation would yield 2998 here.
		{29.99, 2999},
	}
	for _, c := range cases {
		if got := model.MinorUnits(c.major); got != c.want {
			t.Errorf("MinorUnits(%v) = %d, want %d", c.major, got, c.want)
		}
	}
}

func TestMajorString(t *testing.T) {
	if got := model.MajorString(1999); got != "19.99" {
		t.Errorf("MajorString(1999) = %q, want %q", got, "19.99")
	}
	if got := model.MajorString(5); got != "0.05" {
		t.Errorf("MajorString(5) = %q, want %q", got, "0.05")
	}
	if got := model.MajorString(-250); got != "-2.50" {
		t.Errorf("MajorString(-250) = %q, want %q", got, "-2.50")
	}
}
