package gitrepo

// TrackingStatusGone is the sentinel git reports when a tracked reference no
// longer exists on its remote.
const TrackingStatusGone = "[gone]"

// LocalBranchInfo describes a local branch together with its upstream and push
// tracking metadata. Upstream and push fields are independent: in a triangular
// workflow a branch fetches from one remote and pushes to another, and either
// side may be gone while the other is live.
type LocalBranchInfo struct {
	Name              string
	UpstreamShortName string
	UpstreamTrack     string
	PushRemoteName    string
	PushReferenceName string
	PushTrack         string
}

// UpstreamGone reports whether the upstream tracking reference was deleted on its remote.
func (branch LocalBranchInfo) UpstreamGone() bool {
	return branch.UpstreamTrack == TrackingStatusGone
}

// PushGone reports whether the push tracking reference was deleted on its remote.
func (branch LocalBranchInfo) PushGone() bool {
	return branch.PushTrack == TrackingStatusGone
}

// RemoteBranchInfo describes a remote-tracking branch by its qualified name and
// the short name left after stripping the remote prefix.
type RemoteBranchInfo struct {
	Name              string
	NameWithoutRemote string
}
