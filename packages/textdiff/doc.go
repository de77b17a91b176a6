// Package textdiff computes minimal line diffs between two texts.
//
// Lines returns a tagged edit script built from a longest common subsequence
// table. The table is filled iteratively after the common prefix and suffix
// are trimmed, so deep inputs do not grow the call stack. Within a changed
// region all deleted lines come before all inserted lines.
//
// Render produces the "-", "+", " " prefixed text of a script. Unified
// produces a conventional unified diff with hunk headers.
package textdiff
