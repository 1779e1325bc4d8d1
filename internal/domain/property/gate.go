package property

// PublishGate decides whether a listing's media is complete enough to go in
// front of guests. MinimumMedia is configuration; the source platform moved
// the threshold over time, so no default lives in the domain.
type PublishGate struct {
	MinimumMedia int
}

// GateResult reports the outcome of a gate check together with the items that
// still need tags, so the UI can point at them.
type GateResult struct {
	OK         bool
	TotalMedia int
	Incomplete []MediaItem
}

// Check is the read-only gate predicate: every media item across the property
// and its rooms must carry at least one tag, and the total item count must
// reach the configured minimum. It never mutates the aggregate.
func (g PublishGate) Check(p *Property) GateResult {
	result := GateResult{}
	for _, col := range p.collections() {
		result.TotalMedia += len(col.Items)
		result.Incomplete = append(result.Incomplete, col.Untagged()...)
	}
	result.OK = len(result.Incomplete) == 0 && result.TotalMedia >= g.MinimumMedia
	return result
}

// EnsureCoverAssigned promotes the first property image by display order to
// cover when none is flagged. Called only on the publish-attempt path; plain
// gate checks stay side-effect free.
func (p *Property) EnsureCoverAssigned() {
	if _, ok := p.Images.Cover(); ok {
		return
	}
	ordered := p.Images.ByDisplayOrder()
	for _, item := range ordered {
		if item.Type == MediaImage {
			_ = p.Images.SetCover(item.ID)
			return
		}
	}
}
