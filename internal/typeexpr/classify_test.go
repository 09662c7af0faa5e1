package typeexpr

import "testing"

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		name   string
		kind   LinkKind
		target string
	}{
		// Bare builtins stay plain.
		{"int", LinkNone, ""},
		{"str", LinkNone, ""},
		{"frozenset", LinkNone, ""},
		// Special constants stay plain.
		{"None", LinkNone, ""},
		{"True", LinkNone, ""},
		{"False", LinkNone, ""},
		// Bare typing names.
		{"Optional", LinkData, "typing.Optional"},
		{"Any", LinkData, "typing.Any"},
		{"Union", LinkClass, "typing.Union"},
		{"Protocol", LinkClass, "typing.Protocol"},
		// Bare abstract collections.
		{"Sequence", LinkClass, "collections.abc.Sequence"},
		{"Callable", LinkClass, "collections.abc.Callable"},
		// Qualified names under known external modules.
		{"numpy.ndarray", LinkClass, "numpy.ndarray"},
		{"numpy.typing.NDArray", LinkClass, "numpy.typing.NDArray"},
		{"typing.Optional", LinkData, "typing.Optional"},
		{"typing.Union", LinkClass, "typing.Union"},
		{"datetime.datetime", LinkClass, "datetime.datetime"},
		{"pathlib.Path", LinkClass, "pathlib.Path"},
		{"collections.abc.Mapping", LinkClass, "collections.abc.Mapping"},
		{"collections.OrderedDict", LinkClass, "collections.OrderedDict"},
		// The catch-all builtins module stays plain regardless of suffix.
		{"builtins.int", LinkNone, ""},
		{"builtins.whatever", LinkNone, ""},
		// Unknown names stay plain.
		{"Foo", LinkNone, ""},
		{"mypkg.Thing", LinkNone, ""},
		{"", LinkNone, ""},
		{"...", LinkNone, ""},
	}
	for _, tc := range tests {
		got := Classify(tc.name)
		if got.Kind != tc.kind {
			t.Errorf("Classify(%q): expected kind %d, got %d", tc.name, tc.kind, got.Kind)
		}
		if got.Target != tc.target {
			t.Errorf("Classify(%q): expected target %q, got %q", tc.name, tc.target, got.Target)
		}
	}
}

func TestClassify_LongestPrefixWins(t *testing.T) {
	// collections.abc must win over the shorter collections prefix, which
	// changes the resolved namespace of the remaining suffix.
	got := Classify("collections.abc.Sequence")
	if got.Kind != LinkClass || got.Target != "collections.abc.Sequence" {
		t.Fatalf("expected class link to collections.abc.Sequence, got %+v", got)
	}
	got = Classify("collections.deque")
	if got.Kind != LinkClass || got.Target != "collections.deque" {
		t.Fatalf("expected class link to collections.deque, got %+v", got)
	}
}

func TestClassify_Total(t *testing.T) {
	// Every input yields exactly one classification; none may panic.
	inputs := []string{
		"", ".", "..", "a.", ".a", "a..b", "_", "__init__",
		"typing.", "numpy.", "int.int", "None.None", "1abc",
		"\x00", "ünïcode.name", "typing.NoSuchThing",
	}
	for _, in := range inputs {
		got := Classify(in)
		if got.Kind != LinkNone && got.Kind != LinkData && got.Kind != LinkClass {
			t.Errorf("Classify(%q): unexpected kind %d", in, got.Kind)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	names := []string{"numpy.ndarray", "Optional", "int", "mypkg.X"}
	for _, name := range names {
		first := Classify(name)
		for i := 0; i < 10; i++ {
			if got := Classify(name); got != first {
				t.Fatalf("Classify(%q) not deterministic: %+v vs %+v", name, first, got)
			}
		}
	}
}

func TestClassify_TypingDataSuffixRule(t *testing.T) {
	// The data set only applies to the typing module; unknown typing
	// suffixes and other modules classify as classes.
	got := Classify("typing.NoSuchThing")
	if got.Kind != LinkClass {
		t.Errorf("expected class link for unknown typing suffix, got %+v", got)
	}
	got = Classify("typing_extensions.Self")
	if got.Kind != LinkClass {
		t.Errorf("expected class link under typing_extensions, got %+v", got)
	}
}
