package domain

import (
	"reflect"
	"testing"
)

func TestTagForStatus(t *testing.T) {
	cases := map[string]string{
		"success":   "ecomdrop-processed",
		"completed": "ecomdrop-completed",
		"pending":   "ecomdrop-pending",
		"error":     "ecomdrop-error",
		"failed":    "ecomdrop-error",
	}
	for status, want := range cases {
		got, ok := TagForStatus(status)
		if !ok || got != want {
			t.Errorf("TagForStatus(%q) = %q, %v; want %q, true", status, got, ok, want)
		}
	}

	for _, status := range []string{"", "SUCCESS", "done", "unknown"} {
		if tag, ok := TagForStatus(status); ok {
			t.Errorf("TagForStatus(%q) = %q; want no tag", status, tag)
		}
	}
}

func TestResolvedTagsDefault(t *testing.T) {
	req := &CallbackRequest{}
	got := req.ResolvedTags()
	if !reflect.DeepEqual(got, []string{DefaultCallbackTag}) {
		t.Errorf("ResolvedTags() = %v; want [%s]", got, DefaultCallbackTag)
	}
}

func TestResolvedTagsUnion(t *testing.T) {
	req := &CallbackRequest{
		Tags:   []string{"vip", " rush "},
		Status: "completed",
	}
	got := req.ResolvedTags()
	want := []string{"vip", "rush", "ecomdrop-completed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolvedTags() = %v; want %v", got, want)
	}
}

func TestResolvedTagsStatusAlreadyExplicit(t *testing.T) {
	req := &CallbackRequest{
		Tags:   []string{"ecomdrop-processed"},
		Status: "success",
	}
	got := req.ResolvedTags()
	want := []string{"ecomdrop-processed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolvedTags() = %v; want %v", got, want)
	}
}

func TestResolvedTagsUnknownStatusIgnored(t *testing.T) {
	req := &CallbackRequest{Status: "shipped"}
	got := req.ResolvedTags()
	if !reflect.DeepEqual(got, []string{DefaultCallbackTag}) {
		t.Errorf("ResolvedTags() = %v; want default only", got)
	}
}

func TestMergeTagsPreservesExistingOrder(t *testing.T) {
	got := MergeTags([]string{"b", "a"}, []string{"c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTags = %v; want %v", got, want)
	}
}

func TestMergeTagsIdempotent(t *testing.T) {
	existing := []string{"vip", "ecomdrop-processed"}
	additions := []string{"ecomdrop-processed"}

	once := MergeTags(existing, additions)
	twice := MergeTags(once, additions)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed result: %v vs %v", once, twice)
	}
}

func TestMergeTagsNeverRemoves(t *testing.T) {
	existing := []string{"x", "y", "z"}
	got := MergeTags(existing, []string{"w"})
	for _, tag := range existing {
		found := false
		for _, g := range got {
			if g == tag {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("merge dropped existing tag %q: %v", tag, got)
		}
	}
}

func TestMergeTagsTrimsAndSkipsEmpty(t *testing.T) {
	got := MergeTags([]string{" a ", ""}, []string{"  ", "b "})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeTags = %v; want %v", got, want)
	}
}

func TestSplitTags(t *testing.T) {
	got := SplitTags("vip, rush ,,  urgent")
	want := []string{"vip", "rush", "urgent"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTags = %v; want %v", got, want)
	}

	if got := SplitTags("  "); got != nil {
		t.Errorf("SplitTags(blank) = %v; want nil", got)
	}
}
