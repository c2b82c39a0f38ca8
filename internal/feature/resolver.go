package feature

import (
	"github.com/aitri-dev/aitri/internal/paths"
)

// Resolver reconstructs feature state from artifacts under a Layout.
type Resolver struct {
	layout paths.Layout
	fs     FileSystem
}

// NewResolver returns a resolver reading through fsys. A nil fsys reads
// the real filesystem.
func NewResolver(layout paths.Layout, fsys FileSystem) *Resolver {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &Resolver{layout: layout, fs: fsys}
}

// Layout returns the layout the resolver reads from.
func (r *Resolver) Layout() paths.Layout { return r.layout }

// Delivery returns the delivery record for name and whether the file exists.
func (r *Resolver) Delivery(name string) (DeliveryRecord, bool) {
	p := r.layout.Delivery(name)
	if !r.fs.Exists(p) {
		return DeliveryRecord{}, false
	}
	data, err := r.fs.ReadFile(p)
	if err != nil {
		// Present but unreadable: the record exists, the decision is unknown.
		return DeliveryRecord{}, true
	}
	return ParseDelivery(data), true
}

// ResolveState returns the lifecycle state of name. The checks run in a
// fixed order and the first match wins:
//
//  1. delivery decision SHIP  -> delivered
//  2. delivery decision HOLD  -> blocked
//  3. go marker present       -> deliver_pending if a delivery record exists, else implementation
//  4. approved spec present   -> approved
//  5. draft spec present      -> draft
//  6. otherwise               -> unknown
//
// A delivery record whose decision is neither SHIP nor HOLD is treated the
// same as a pending one.
func (r *Resolver) ResolveState(name string) State {
	rec, hasDelivery := r.Delivery(name)
	if hasDelivery {
		switch rec.Decision {
		case DecisionShip:
			return StateDelivered
		case DecisionHold:
			return StateBlocked
		}
	}
	if r.fs.Exists(r.layout.GoMarker(name)) {
		if hasDelivery {
			return StateDeliverPending
		}
		return StateImplementation
	}
	if r.fs.Exists(r.layout.ApprovedSpec(name)) {
		return StateApproved
	}
	if r.fs.Exists(r.layout.DraftSpec(name)) {
		return StateDraft
	}
	return StateUnknown
}

// Resolve returns the full Feature for name. SpecFile prefers the approved
// spec; DeliveredAt is set only for delivered features.
func (r *Resolver) Resolve(name string) Feature {
	f := Feature{Name: name, State: r.ResolveState(name)}
	switch {
	case r.fs.Exists(r.layout.ApprovedSpec(name)):
		f.SpecFile = r.layout.ApprovedSpec(name)
	case r.fs.Exists(r.layout.DraftSpec(name)):
		f.SpecFile = r.layout.DraftSpec(name)
	}
	if f.State == StateDelivered {
		rec, _ := r.Delivery(name)
		f.DeliveredAt = rec.DeliveredAt
	}
	return f
}

// HasPlan reports whether a plan document exists for name.
func (r *Resolver) HasPlan(name string) bool {
	return r.fs.Exists(r.layout.Plan(name))
}

// HasBuildMarker reports whether implementation scaffolding was recorded.
func (r *Resolver) HasBuildMarker(name string) bool {
	return r.fs.Exists(r.layout.BuildMarker(name))
}
