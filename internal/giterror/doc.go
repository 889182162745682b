// Package giterror classifies failures coming back from the GitHub search
// endpoints. Search clients wrap everything in errors.FetchError; this package
// answers the follow-up question of what kind of failure it was, which drives
// log hints and CLI exit codes.
package giterror
