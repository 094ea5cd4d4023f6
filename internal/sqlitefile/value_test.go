package sqlitefile

import "testing"

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want int
	}{
		{"int equal", IntValue(5), IntValue(5), 0},
		{"int less", IntValue(3), IntValue(5), -1},
		{"int vs float equal", IntValue(5), FloatValue(5.0), 0},
		{"text equal", TextValue("red"), TextValue("red"), 0},
		{"text less", TextValue("apple"), TextValue("banana"), -1},
		{"blob equal", BlobValue([]byte{1, 2}), BlobValue([]byte{1, 2}), 0},
		{"text vs blob equal bytes", TextValue("ab"), BlobValue([]byte("ab")), 0},
		{"null vs null", NullValue(), NullValue(), 0},
		{"null vs int never equal", NullValue(), IntValue(0), -1},
		{"int vs null never equal", IntValue(0), NullValue(), -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compare(tc.a, tc.b)
			if (got == 0) != (tc.want == 0) || (got < 0) != (tc.want < 0) {
				t.Fatalf("Compare(%v, %v) = %d, want sign matching %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{NullValue(), ""},
		{IntValue(42), "42"},
		{TextValue("hello"), "hello"},
		{FloatValue(1.5), "1.5"},
	}
	for _, tc := range cases {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("Value.String() = %q, want %q", got, tc.want)
		}
	}
}
