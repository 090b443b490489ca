// Package prerefresh implements the Pre-Refresh Executor (C6, §4.8): a
// bounded worker pool that runs asynchronous cache refreshes once a key's
// remaining TTL crosses the pre-refresh threshold, and the delayed
// double-delete follow-ups the writer chain schedules after a write.
//
// Submissions are deduplicated by key: while a refresh for a key is queued
// or running, further submissions for the same key are dropped rather than
// queued behind it, since the in-flight refresh's result will be fresh
// enough by the time it completes.
package prerefresh
