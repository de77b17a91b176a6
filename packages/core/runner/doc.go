// Package runner executes diff profiles and reports what changed between
// the two responses.
//
// It provides functionality for:
//   - Materializing both requests of a profile before anything is sent
//   - Sending both requests concurrently and waiting for both
//   - Normalizing both responses with the profile's single policy
//   - Computing the line diff of the two canonical texts
//   - Waiting for a service to become ready before a run
//
// The first failed send cancels the other one and no diff is produced.
package runner
