package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames guards the key names consumed by log pipelines.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name string
		attr slog.Attr
		key  string
		val  string
	}{
		{"BuildID", BuildID("b1"), KeyBuildID, "b1"},
		{"Stage", Stage("posts"), KeyStage, "posts"},
		{"Family", Family("tag-page"), KeyFamily, "tag-page"},
		{"Path", Path("posts/1/index.html"), KeyPath, "posts/1/index.html"},
		{"Layout", Layout("404.html"), KeyLayout, "404.html"},
		{"Entity", Entity("7"), KeyEntity, "7"},
		{"Topic", Topic("issues"), KeyTopic, "issues"},
		{"Outcome", Outcome("success"), KeyOutcome, "success"},
		{"URL", URL("nats://x"), KeyURL, "nats://x"},
	}
	for _, tc := range cases {
		if tc.attr.Key != tc.key {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.key, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.val {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.val, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Page(3); a.Key != KeyPage || a.Value.Int64() != 3 {
		t.Fatalf("Page mismatch: %v", a)
	}
	if a := Pages(2); a.Key != KeyPages {
		t.Fatalf("Pages key mismatch: %s", a.Key)
	}
	if a := Posts(9); a.Key != KeyPosts {
		t.Fatalf("Posts key mismatch: %s", a.Key)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("DurationMS mismatch: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("expected empty error string, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("expected boom, got %q", a.Value.String())
	}
}
