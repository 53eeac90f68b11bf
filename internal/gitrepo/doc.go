// Package gitrepo contains helpers for interrogating Git repositories.
//
// It exposes RepositoryManager for listing branches with their tracking
// metadata, checking merge containment between references, reading
// configuration values, and refreshing remotes, along with the record types
// those operations produce.
package gitrepo
