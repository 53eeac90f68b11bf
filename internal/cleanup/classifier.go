package cleanup

import (
	"context"
	"errors"

	"github.com/sweepkit/sweep/internal/gitrepo"
)

// AncestryChecker reports whether every commit of the branch is already contained in the base reference.
type AncestryChecker func(executionContext context.Context, baseReference string, branchName string) (bool, error)

// ErrAncestryCheckerNotConfigured indicates classification lacks an ancestry checker.
var ErrAncestryCheckerNotConfigured = errors.New("ancestry checker not configured")

// ClassifyBranches partitions local branches into removal categories relative
// to the resolved base reference.
//
// The classification is a pure per-branch fold: branches tracking the base are
// skipped, merged branches feed the merged categories, and unmerged branches
// whose tracking references vanished feed the gone categories. Remote
// categories are only fed while the push reference still exists and names an
// addressable remote reference.
func ClassifyBranches(executionContext context.Context, baseReference string, localBranches []gitrepo.LocalBranchInfo, ancestryChecker AncestryChecker) (RemovalPlan, error) {
	if ancestryChecker == nil {
		return RemovalPlan{}, ErrAncestryCheckerNotConfigured
	}

	localMergedNames := newBranchNameSet()
	localGoneNames := newBranchNameSet()
	remoteMergedReferences := newRemoteReferenceSet()
	remoteGoneReferences := newRemoteReferenceSet()

	for _, localBranch := range localBranches {
		if localBranch.UpstreamShortName == baseReference {
			continue
		}

		merged, ancestryError := ancestryChecker(executionContext, baseReference, localBranch.Name)
		if ancestryError != nil {
			return RemovalPlan{}, ancestryError
		}

		if merged {
			localMergedNames.add(localBranch.Name)
		} else if localBranch.PushGone() {
			localGoneNames.add(localBranch.Name)
		}

		if localBranch.PushGone() {
			continue
		}
		if len(localBranch.PushRemoteName) == 0 || len(localBranch.PushReferenceName) == 0 {
			continue
		}

		if merged {
			remoteMergedReferences.add(localBranch.PushRemoteName, localBranch.PushReferenceName)
		} else if localBranch.UpstreamGone() {
			remoteGoneReferences.add(localBranch.PushRemoteName, localBranch.PushReferenceName)
		}
	}

	return RemovalPlan{
		LocalMerged:  localMergedNames.sortedNames(),
		LocalGone:    localGoneNames.sortedNames(),
		RemoteMerged: remoteMergedReferences.sortedReferences(),
		RemoteGone:   remoteGoneReferences.sortedReferences(),
	}, nil
}
