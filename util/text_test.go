// util/text_test.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"testing"
)

func TestWrapText(t *testing.T) {
	input := "this is a test_with_a_long_line of stuff"
	expected := "this is \n  a \n  test_with_a_long_line \n  of \n  stuff"
	wrap, lines := WrapText(input, 8, 2, false)
	if wrap != expected {
		t.Errorf("wrapping gave %q; expected %q", wrap, expected)
	}
	if lines != 5 {
		t.Errorf("wrapping returned %d lines, expected 5", lines)
	}
}

func TestWrapTextPreformatted(t *testing.T) {
	// Lines starting with a space are passed through unchanged unless
	// wrapAll is given.
	input := " abc def"
	wrap, lines := WrapText(input, 4, 0, false)
	if wrap != input {
		t.Errorf("preformatted line was wrapped: got %q", wrap)
	}
	if lines != 1 {
		t.Errorf("preformatted line returned %d lines, expected 1", lines)
	}

	wrap, lines = WrapText(input, 4, 0, true)
	if wrap != " \nabc \ndef" {
		t.Errorf("wrapAll gave %q; expected %q", wrap, " \nabc \ndef")
	}
	if lines != 3 {
		t.Errorf("wrapAll returned %d lines, expected 3", lines)
	}
}

func TestWrapTextNewlines(t *testing.T) {
	wrap, lines := WrapText("one\ntwo", 10, 2, false)
	if wrap != "one\ntwo" {
		t.Errorf("got %q; expected %q", wrap, "one\ntwo")
	}
	if lines != 2 {
		t.Errorf("got %d lines, expected 2", lines)
	}
}

func TestAtof(t *testing.T) {
	for _, ok := range []struct {
		s string
		v float64
	}{
		{s: "1", v: 1},
		{s: " 250 ", v: 250},
		{s: "-17.5", v: -17.5},
		{s: "\t0.25\n", v: 0.25},
	} {
		if v, err := Atof(ok.s); err != nil {
			t.Errorf("Atof(%q) returned unexpected error %v", ok.s, err)
		} else if v != ok.v {
			t.Errorf("Atof(%q) = %v, expected %v", ok.s, v, ok.v)
		}
	}

	for _, s := range []string{"", "12x", "1 2"} {
		if _, err := Atof(s); err == nil {
			t.Errorf("Atof(%q) expected error, got none", s)
		}
	}
}

func TestIsAllNumbers(t *testing.T) {
	for _, s := range []string{"0", "0123456789", "360"} {
		if !IsAllNumbers(s) {
			t.Errorf("IsAllNumbers(%q) = false, expected true", s)
		}
	}
	for _, s := range []string{"12a", "-5", "1.5", "1 2"} {
		if IsAllNumbers(s) {
			t.Errorf("IsAllNumbers(%q) = true, expected false", s)
		}
	}
}
