// Package cleanup implements the guarded removal pipeline.
//
// A cleanup run moves through four stages, each consuming the previous
// stage's output and nothing else:
//
//   - Locator walks the rule patterns and emits candidates (path, size,
//     mtime) plus skips for anything it could not examine
//   - Classifier stamps each candidate with a risk level (safe, caution,
//     dangerous) without touching the original slice
//   - Planner deduplicates, excludes dangerous items, prunes entries nested
//     inside planned directories, and totals per category
//   - Executor walks the plan in order, one item at a time, recording an
//     outcome per item
//
// The same plan feeds both a dry run and an apply pass; the only
// difference is the outcome column. Dangerous items never reach the
// executor through the planner, and the executor independently refuses
// them (and anything resolving to a protected path) if handed a plan
// built elsewhere.
//
// Example usage:
//
//	set := rules.Default()
//	scan, err := cleanup.NewLocator(set).Scan()
//	if err != nil {
//		log.Fatal(err)
//	}
//	scan.Candidates = cleanup.NewClassifier(set, nil).Classify(scan.Candidates)
//	plan := cleanup.BuildPlan(set, scan)
//
//	report := cleanup.NewExecutor(set, nil).Run(ctx, plan, cleanup.Apply)
//	fmt.Println(report.Summary().Removed, "items removed")
package cleanup
