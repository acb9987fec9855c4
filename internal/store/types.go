// Package store is the durable session/interaction log: a thin PostgreSQL
// layer over the two append-and-update tables described by the interaction
// engine's data model. Adapted from the teacher's pkg/memory/postgres,
// dropping its embeddings/knowledge-graph layers, which have no home here.
package store

import "time"

// Session is one contiguous run of interactions sharing an interface,
// voice, sensitivity, and model selector.
type Session struct {
	ID          int64
	Interface   string
	Voice       string
	Sensitivity string
	Model       string
	DataDir     string
	Started     time.Time
	Ended       *time.Time
}

// Interaction is a single (query -> response) cycle within a Session.
type Interaction struct {
	ID               int64
	SessionID        int64
	Query            string
	Response         *string
	QueryDurationMS  *int64
	ResponseDurationMS *int64
	QueryFile        *string
	ResponseFile     *string
	CaptureFile      *string
	Started          time.Time
	Ended            *time.Time
}
