// Package audit records governed mutations and serves the read-only audit trail.
//
// Recorder.Record is called by the mutation service with the transaction handle of
// the mutation itself, so the entity change and its audit row commit together.
package audit
