package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	topics := Topics()
	want := []string{"file-format", "keys", "sync"}
	if strings.Join(topics, ",") != strings.Join(want, ",") {
		t.Fatalf("expected topics %v; got %v", want, topics)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" SYNC ")
	if !ok || !strings.Contains(body, "# Syncing with the file") {
		t.Fatalf("expected sync topic; got ok=%v body=%q", ok, body)
	}
	for _, bad := range []string{"", "nope", "../docs", "content/sync"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
