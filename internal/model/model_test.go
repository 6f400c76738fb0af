package model

import (
	"reflect"
	"testing"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		in   string
		want Section
		ok   bool
	}{
		{in: "backlog", want: SectionBacklog, ok: true},
		{in: " Active ", want: SectionActive, ok: true},
		{in: "current", want: SectionActive, ok: true},
		{in: "COMPLETED", want: SectionCompleted, ok: true},
		{in: "done", want: SectionCompleted, ok: true},
		{in: "", ok: false},
		{in: "later", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseSection(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseSection(%q): expected (%q, %v); got (%q, %v)", tt.in, tt.want, tt.ok, got, ok)
		}
	}
	for _, s := range Sections {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
		if back, ok := ParseSection(string(s)); !ok || back != s {
			t.Fatalf("expected %q to parse back; got %q", s, back)
		}
	}
	if Section("later").Valid() {
		t.Fatalf("expected unknown section to be invalid")
	}
	if got := Section("later").Title(); got != "later" {
		t.Fatalf("expected unknown title to echo the name; got %q", got)
	}
}

func TestDocument_TasksAndLookup(t *testing.T) {
	d := &Document{Backlog: []string{"a", "b", "a"}, Completed: []string{"c"}}

	tasks := d.Tasks(SectionBacklog)
	if len(tasks) != 3 || tasks[2] != (Task{Text: "a", Section: SectionBacklog, Position: 2}) {
		t.Fatalf("unexpected backlog tasks: %#v", tasks)
	}
	if got := len(d.All()); got != 4 {
		t.Fatalf("expected 4 tasks; got %d", got)
	}
	if got := d.Index(SectionBacklog, "a"); got != 0 {
		t.Fatalf("expected first match at 0; got %d", got)
	}
	if got := d.Index(SectionActive, "a"); got != -1 {
		t.Fatalf("expected -1 for missing text; got %d", got)
	}
	if !d.Contains("c") || d.Contains("z") {
		t.Fatalf("unexpected Contains results")
	}
	if _, ok := d.Task(SectionBacklog, 3); ok {
		t.Fatalf("expected out-of-range task lookup to fail")
	}
	if tk, ok := d.Task(SectionCompleted, 0); !ok || tk.Text != "c" {
		t.Fatalf("expected completed task c; got %#v", tk)
	}
	if d.Len(Section("later")) != 0 || d.Texts(Section("later")) != nil {
		t.Fatalf("expected unknown section to be empty")
	}
}

func TestDocument_TextsAreCopies(t *testing.T) {
	d := &Document{Backlog: []string{"a"}}
	texts := d.Texts(SectionBacklog)
	texts[0] = "changed"
	if d.Backlog[0] != "a" {
		t.Fatalf("expected Texts to return a copy")
	}

	in := []string{"x", "y"}
	d.SetTexts(SectionActive, in)
	in[0] = "changed"
	if d.Active[0] != "x" {
		t.Fatalf("expected SetTexts to copy its input")
	}
	d.SetTexts(SectionActive, nil)
	if d.Active != nil || d.Len(SectionActive) != 0 {
		t.Fatalf("expected Active cleared; got %#v", d.Active)
	}
	d.SetTexts(Section("later"), []string{"ignored"})
	if len(d.All()) != 1 {
		t.Fatalf("expected unknown section to be ignored")
	}
}

func TestDocument_CloneAndEqual(t *testing.T) {
	d := &Document{Backlog: []string{"a", "b"}, Active: []string{"now"}, Completed: []string{"c"}}
	c := d.Clone()
	if !reflect.DeepEqual(d, c) || !d.Equal(c) {
		t.Fatalf("expected clone to equal original; got %#v", c)
	}
	c.Backlog[0] = "changed"
	if d.Backlog[0] != "a" {
		t.Fatalf("expected clone not to share storage")
	}
	if d.Equal(c) {
		t.Fatalf("expected documents to differ after edit")
	}

	reordered := &Document{Backlog: []string{"b", "a"}, Active: []string{"now"}, Completed: []string{"c"}}
	if d.Equal(reordered) {
		t.Fatalf("expected order to matter for Equal")
	}
	// nil and empty slices compare equal.
	if !(&Document{Backlog: []string{}}).Equal(&Document{}) {
		t.Fatalf("expected empty and nil sections to be equal")
	}
}

func TestDocument_NilReceiver(t *testing.T) {
	var d *Document
	if !d.IsEmpty() {
		t.Fatalf("expected nil document to be empty")
	}
	if d.Texts(SectionBacklog) != nil || d.Len(SectionBacklog) != 0 || len(d.All()) != 0 {
		t.Fatalf("expected nil document to have no tasks")
	}
	if d.Index(SectionBacklog, "a") != -1 || d.Contains("a") {
		t.Fatalf("expected nil document lookups to miss")
	}
	if _, ok := d.Task(SectionBacklog, 0); ok {
		t.Fatalf("expected nil document task lookup to fail")
	}
	c := d.Clone()
	if c == nil || !c.IsEmpty() {
		t.Fatalf("expected clone of nil to be an empty document; got %#v", c)
	}
	if !d.Equal(&Document{}) {
		t.Fatalf("expected nil document to equal an empty one")
	}
}

func TestNormalizeText(t *testing.T) {
	if got := NormalizeText("  a  b \t"); got != "a  b" {
		t.Fatalf("expected surrounding whitespace trimmed only; got %q", got)
	}
}
