// SPDX-License-Identifier: MPL-2.0

package finding

// Hypothesis is an inferred root cause derived from correlated Issues and
// Diffs. Hypotheses are ordered by actionability: the generator may insert
// its strongest signal first regardless of rule discovery order.
type Hypothesis struct {
	Title    string `json:"title"`
	Evidence string `json:"evidence"`
	Fix      string `json:"fix"`
}
