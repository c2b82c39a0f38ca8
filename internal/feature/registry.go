package feature

import (
	"fmt"
	"sort"
)

// Registry enumerates every feature known to the project.
type Registry struct {
	resolver *Resolver
}

// NewRegistry returns a registry backed by r.
func NewRegistry(r *Resolver) *Registry {
	return &Registry{resolver: r}
}

// Resolver returns the underlying state resolver.
func (g *Registry) Resolver() *Resolver { return g.resolver }

// ScanAll lists features found in the draft and approved spec directories.
// Drafts come first in file-name order, followed by approved specs not
// already seen. A name present in both is reported once, with the approved
// spec as SpecFile.
func (g *Registry) ScanAll() ([]Feature, error) {
	layout := g.resolver.layout
	drafts, err := g.resolver.fs.ListMarkdown(layout.DraftsDir())
	if err != nil {
		return nil, fmt.Errorf("listing draft specs: %w", err)
	}
	approved, err := g.resolver.fs.ListMarkdown(layout.ApprovedDir())
	if err != nil {
		return nil, fmt.Errorf("listing approved specs: %w", err)
	}

	seen := make(map[string]bool, len(drafts)+len(approved))
	names := make([]string, 0, len(drafts)+len(approved))
	for _, group := range [][]string{drafts, approved} {
		for _, name := range group {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	features := make([]Feature, 0, len(names))
	for _, name := range names {
		features = append(features, g.resolver.Resolve(name))
	}
	return features, nil
}

// Summarize counts features. In-progress is everything that is neither
// delivered nor a draft.
func Summarize(features []Feature) Summary {
	s := Summary{Total: len(features)}
	for _, f := range features {
		switch f.State {
		case StateDelivered:
			s.Delivered++
		case StateDraft:
			s.Draft++
		default:
			s.InProgress++
		}
	}
	return s
}

// SelectNext picks the feature to work on. A non-empty queue wins when one
// of its features is still pending (lowest priority number first, file
// order on ties). Otherwise the first pending draft is chosen, then the
// first pending feature in any other state. ok is false once everything is
// delivered.
func SelectNext(features []Feature, queue []QueueEntry) (next Feature, ok bool) {
	pending := make(map[string]Feature, len(features))
	for _, f := range features {
		if f.State.IsPending() {
			pending[f.Name] = f
		}
	}
	if len(pending) == 0 {
		return Feature{}, false
	}

	if len(queue) > 0 {
		ordered := make([]QueueEntry, len(queue))
		copy(ordered, queue)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Priority < ordered[j].Priority
		})
		for _, entry := range ordered {
			if f, found := pending[entry.Feature]; found {
				return f, true
			}
		}
	}

	for _, f := range features {
		if f.State == StateDraft {
			return f, true
		}
	}
	for _, f := range features {
		if f.State.IsPending() {
			return f, true
		}
	}
	return Feature{}, false
}
