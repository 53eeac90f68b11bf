package cleanup

import "sort"

// RemovalPlan partitions branches that are safe to delete into removal
// categories. Entries are deduplicated and sorted so that identical repository
// state always produces an identical plan.
//
// RemoteGone is computed alongside the surfaced categories but stays out of
// every rendered representation; it is reserved for a future deletion step.
type RemovalPlan struct {
	LocalMerged  []string            `json:"local_merged" yaml:"local_merged"`
	LocalGone    []string            `json:"local_gone" yaml:"local_gone"`
	RemoteMerged map[string][]string `json:"remote_merged" yaml:"remote_merged"`
	RemoteGone   map[string][]string `json:"-" yaml:"-"`
}

// IsEmpty reports whether the plan surfaces no removal candidates.
func (plan RemovalPlan) IsEmpty() bool {
	return len(plan.LocalMerged) == 0 && len(plan.LocalGone) == 0 && len(plan.RemoteMerged) == 0
}

type branchNameSet struct {
	memberNames map[string]struct{}
}

func newBranchNameSet() *branchNameSet {
	return &branchNameSet{memberNames: map[string]struct{}{}}
}

func (set *branchNameSet) add(branchName string) {
	set.memberNames[branchName] = struct{}{}
}

func (set *branchNameSet) sortedNames() []string {
	names := make([]string, 0, len(set.memberNames))
	for branchName := range set.memberNames {
		names = append(names, branchName)
	}
	sort.Strings(names)
	return names
}

type remoteReferenceSet struct {
	referenceSetsByRemote map[string]*branchNameSet
}

func newRemoteReferenceSet() *remoteReferenceSet {
	return &remoteReferenceSet{referenceSetsByRemote: map[string]*branchNameSet{}}
}

func (set *remoteReferenceSet) add(remoteName string, referenceName string) {
	referenceSet, referenceSetExists := set.referenceSetsByRemote[remoteName]
	if !referenceSetExists {
		referenceSet = newBranchNameSet()
		set.referenceSetsByRemote[remoteName] = referenceSet
	}
	referenceSet.add(referenceName)
}

func (set *remoteReferenceSet) sortedReferences() map[string][]string {
	references := make(map[string][]string, len(set.referenceSetsByRemote))
	for remoteName, referenceSet := range set.referenceSetsByRemote {
		references[remoteName] = referenceSet.sortedNames()
	}
	return references
}
