package destination

import "testing"

func TestResolveSlug(t *testing.T) {
	s := &Service{}

	if got := s.ResolveSlug("Patagonia"); got != "patagonia" {
		t.Errorf("ResolveSlug(Patagonia) = %q", got)
	}
	if got := s.ResolveSlug("Other"); got != "" {
		t.Errorf("ResolveSlug(Other) = %q, want empty", got)
	}
	if got := s.ResolveSlug("Narnia"); got != "" {
		t.Errorf("ResolveSlug(Narnia) = %q, want empty", got)
	}
}

func TestResolveTourIDBySlugEmpty(t *testing.T) {
	// An empty slug must short-circuit before touching the database.
	s := &Service{}
	if got := s.ResolveTourIDBySlug(""); got != "" {
		t.Errorf("ResolveTourIDBySlug(\"\") = %q, want empty", got)
	}
}

func TestKnownLabelsEndWithOther(t *testing.T) {
	labels := KnownLabels()
	if len(labels) == 0 || labels[len(labels)-1] != "Other" {
		t.Fatalf("expected Other as the final label, got %v", labels)
	}
	for _, l := range labels[:len(labels)-1] {
		if (&Service{}).ResolveSlug(l) == "" {
			t.Errorf("label %q has no slug mapping", l)
		}
	}
}
