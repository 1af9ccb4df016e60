/*
Package evaluation scores a list of retrieved matches against the label the
caller expected to find.

A match is a true positive when its label equals the expected label and a
false positive otherwise. False negatives are the stored items carrying the
expected label that the search did not return.

	score := evaluation.Evaluate(outcome.Matches, "alice", outcome.TotalWithLabel)
	fmt.Println(score.Precision, score.Recall, score.F1)

Degenerate cases are defined rather than undefined: precision is 1 when
nothing was returned, recall is 0 when nothing carries the label, and F1 is 1
when precision and recall are both 0.
*/
package evaluation
