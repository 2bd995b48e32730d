// Package journal records pacing decisions for later inspection.
//
// # Overview
//
// Every Wait outcome (proceed, quota exhausted, night window, terminal)
// can be appended to a durable journal. The journal answers questions the
// live Status snapshots cannot: what was refused yesterday, how much time
// was spent sleeping, whether a category keeps hitting its quota.
//
// Entries are written asynchronously through a buffered Recorder so the
// pacing hot path never blocks on journal I/O. A Pruner with an optional
// cron schedule keeps the journal bounded.
//
// # Usage
//
//	store, err := journal.NewSQLiteStore("data/decisions.db")
//	recorder := journal.NewRecorder(store, nil)
//	defer recorder.Close()
//
//	recorder.Record(&journal.Entry{
//	    Limiter:  "linkedin_profiles",
//	    Decision: journal.DecisionProceed,
//	    Waited:   12 * time.Second,
//	})
package journal
