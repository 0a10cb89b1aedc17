package value_test

import (
	"testing"

	"github.com/kristofer/glox/pkg/value"
)

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    value.Value
		want bool
	}{
		{"nil is falsey", value.NilValue, false},
		{"false is falsey", value.BoolValue(false), false},
		{"true is truthy", value.BoolValue(true), true},
		{"zero is truthy", value.NumberValue(0), true},
		{"negative number is truthy", value.NumberValue(-1), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"numbers equal", value.NumberValue(1), value.NumberValue(1), true},
		{"numbers differ", value.NumberValue(1), value.NumberValue(2), false},
		{"different types never equal", value.NumberValue(0), value.BoolValue(false), false},
		{"nil equals nil", value.NilValue, value.NilValue, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := value.Equal(c.a, c.b); got != c.want {
				t.Errorf("Equal() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestNumberString(t *testing.T) {
	cases := []struct {
		n    float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{-3, "-3"},
	}
	for _, c := range cases {
		if got := value.NumberValue(c.n).String(); got != c.want {
			t.Errorf("NumberValue(%v).String() = %q, want %q", c.n, got, c.want)
		}
	}
}
