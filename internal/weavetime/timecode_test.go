package weavetime

import "testing"

func mustRational(t *testing.T, num, den int64) Rational {
	t.Helper()
	r, err := NewRational(num, den)
	if err != nil {
		t.Fatalf("NewRational(%d,%d): %v", num, den, err)
	}
	return r
}

func TestParseSMPTE_Valid(t *testing.T) {
	fps := mustRational(t, 25, 1)
	got, err := ParseSMPTE("01:02:03:04", fps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (int64(1)*3600+2*60+3)*microsPerSecond + roundHalfEven(4*microsPerSecond, 25)
	if got != want {
		t.Errorf("ParseSMPTE = %d, want %d", got, want)
	}
}

func TestParseSMPTE_RejectsOutOfRange(t *testing.T) {
	fps := mustRational(t, 25, 1)
	cases := []string{"24:00:00:00", "00:60:00:00", "00:00:60:00", "00:00:00:25", "not:a:time:code"}
	for _, tc := range cases {
		if _, err := ParseSMPTE(tc, fps); err == nil {
			t.Errorf("ParseSMPTE(%q): expected error, got nil", tc)
		} else if _, ok := err.(*BadTimecode); !ok {
			t.Errorf("ParseSMPTE(%q): expected *BadTimecode, got %T", tc, err)
		}
	}
}

func TestComposeInstant_MissingDate(t *testing.T) {
	_, err := ComposeInstant(Date{}, 0)
	if err == nil {
		t.Fatal("expected MissingDate error")
	}
	if _, ok := err.(*MissingDate); !ok {
		t.Errorf("expected *MissingDate, got %T", err)
	}
}

func TestComposeInstant_And_FormatSMPTE_RoundTrip(t *testing.T) {
	fps := mustRational(t, 30000, 1001)
	date := Date{Year: 2026, Month: 7, Day: 30}

	for _, tc := range []string{"00:00:00:00", "12:34:56:12", "23:59:59:29"} {
		offset, err := ParseSMPTE(tc, fps)
		if err != nil {
			t.Fatalf("ParseSMPTE(%q): %v", tc, err)
		}
		instant, err := ComposeInstant(date, offset)
		if err != nil {
			t.Fatalf("ComposeInstant: %v", err)
		}
		got := FormatSMPTE(instant, fps)
		if got != tc {
			t.Errorf("round trip: ParseSMPTE->ComposeInstant->FormatSMPTE(%q) = %q", tc, got)
		}
	}
}

func TestFormatInstant(t *testing.T) {
	date := Date{Year: 2026, Month: 1, Day: 2}
	instant, err := ComposeInstant(date, 3*3600*microsPerSecond+500000)
	if err != nil {
		t.Fatalf("ComposeInstant: %v", err)
	}
	got := FormatInstant(instant)
	want := "2026-01-02T03:00:00.500000Z"
	if got != want {
		t.Errorf("FormatInstant = %q, want %q", got, want)
	}
}

func TestRoundHalfEven(t *testing.T) {
	cases := []struct{ num, den, want int64 }{
		{1, 2, 0},  // tie -> even (0)
		{3, 2, 2},  // tie -> even (2)
		{5, 2, 2},  // 2.5 -> even (2)
		{7, 2, 4},  // 3.5 -> even (4)
		{1, 4, 0},
		{3, 4, 1},
	}
	for _, tc := range cases {
		if got := roundHalfEven(tc.num, tc.den); got != tc.want {
			t.Errorf("roundHalfEven(%d,%d) = %d, want %d", tc.num, tc.den, got, tc.want)
		}
	}
}
