// Package storage writes the published calendar file.
//
// Every write goes to a temp file in the destination directory, is synced
// and then renamed over the target, so a reader never sees a partial file
// and a failed run leaves the previous file in place.
package storage
