// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for identifying different types of errors returned by
// the GitHub GraphQL API, and names the failure class recorded in a load's error
// entry, so no other package needs string-based error checking.
package giterror
