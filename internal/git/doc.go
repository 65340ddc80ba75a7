// Package git reads document history from the git repository a site lives in.
//
// It backs the showLastUpdateAuthor and showLastUpdateTime docs options:
// for every source file the most recent commit touching it provides the
// author name and commit time.
package git
