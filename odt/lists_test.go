package odt

import "testing"

func TestFormatListNumber(t *testing.T) {
	tests := []struct {
		num    int
		format string
		want   string
	}{
		{3, "1", "3"},
		{3, "a", "c"},
		{28, "a", "bb"},
		{2, "A", "B"},
		{4, "i", "iv"},
		{1994, "I", "MCMXCIV"},
		{0, "I", "0"},
		{5, "", ""},
	}
	for _, tt := range tests {
		if got := formatListNumber(tt.num, tt.format); got != tt.want {
			t.Errorf("formatListNumber(%d, %q) = %q, want %q", tt.num, tt.format, got, tt.want)
		}
	}
}

func TestGetBulletChar(t *testing.T) {
	want := []string{"•", "◦", "▪", "•"}
	for level, w := range want {
		if got := getBulletChar(level); got != w {
			t.Errorf("getBulletChar(%d) = %q, want %q", level, got, w)
		}
	}
	if got := getBulletChar(42); got != "•" {
		t.Errorf("getBulletChar(42) = %q, want •", got)
	}
}

func TestIsRenderableBullet(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"-", true},
		{"•", true},
		{string(rune(0xF0B7)), false},
		{"\t", false},
	}
	for _, tt := range tests {
		if got := isRenderableBullet(tt.in); got != tt.want {
			t.Errorf("isRenderableBullet(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveListLevel(t *testing.T) {
	ls := &listStyleXML{
		Bullets: []listLevelXML{{Level: "1", BulletChar: ""}},
		Numbers: []listLevelXML{{
			Level: "2", NumFormat: "i", NumSuffix: ".", StartValue: "0", DisplayLevels: "5",
			Props: &listLevelPropsXML{SpaceBefore: "0.25in", MinLabelWidth: "0.25in"},
		}},
	}

	bullet := resolveListLevel(ls, 0)
	if bullet.numbered || bullet.bullet != "•" {
		t.Errorf("level 1 = %+v, want the default bullet", bullet)
	}

	num := resolveListLevel(ls, 1)
	if !num.numbered || num.format != "i" || num.suffix != "." || num.start != 0 || num.display != 2 {
		t.Errorf("level 2 = %+v", num)
	}
	if num.left != 36 || num.first != -18 {
		t.Errorf("level 2 indents = %v, %v, want 36, -18", num.left, num.first)
	}

	missing := resolveListLevel(ls, 4)
	if missing.numbered || missing.left != 90 || missing.first != -18 {
		t.Errorf("level 5 = %+v, want a default bullet at 90", missing)
	}
}

func TestListCounter(t *testing.T) {
	levels := func(l int) listLevel {
		return listLevel{numbered: true, format: "1", start: 1, display: l + 1, suffix: "."}
	}
	var c listCounter

	var got []string
	step := func(level, start int) {
		ll := levels(level)
		c.next(level, ll, start)
		got = append(got, c.label(level, ll, levels))
	}
	step(0, 0)
	step(1, 0)
	step(1, 0)
	step(2, 0)
	step(0, 0)
	step(1, 0)
	step(0, 7)

	want := []string{"1.", "1.1.", "1.2.", "1.2.1.", "2.", "2.1.", "7."}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestListCounter_StartsAtZero(t *testing.T) {
	ll := listLevel{numbered: true, format: "1", start: 0, display: 1}
	var c listCounter
	c.next(0, ll, 0)
	first := c.label(0, ll, nil)
	c.next(0, ll, 0)
	if first != "0" || c.label(0, ll, nil) != "1" {
		t.Errorf("labels = %q, %q, want 0, 1", first, c.label(0, ll, nil))
	}
}

func TestListCounter_UnstartedParent(t *testing.T) {
	levels := func(l int) listLevel {
		return listLevel{numbered: true, format: "A", start: 3, display: l + 1}
	}
	var c listCounter
	ll := levels(1)
	c.next(1, ll, 0)
	if got := c.label(1, ll, levels); got != "C.C" {
		t.Errorf("label = %q, want C.C", got)
	}
}
