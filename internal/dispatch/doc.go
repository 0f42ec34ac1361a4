// Package dispatch enumerates data directory entries and runs the processor
// once per entry.
//
// The loop is sequential and blocking: each invocation completes before the
// next begins, there are no retries, and order follows the directory listing.
// The failure policy is explicit: PolicyContinue records failures and keeps
// going, PolicyHalt stops the batch at the first one.
package dispatch
