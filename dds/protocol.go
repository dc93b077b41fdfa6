package dds

import "github.com/AmannSingh/deadline-driven-scheduler/tasklist"

// Kind discriminates the five request kinds of spec.md §4.D's public
// contract: Release, Complete and the three Get* queries.
type Kind int

const (
	// Release admits a new instance into Active.
	Release Kind = iota
	// Complete reports end-of-work for an instance by TaskID.
	Complete
	// GetActive requests a snapshot of the Active list.
	GetActive
	// GetCompleted requests a snapshot of the Completed list.
	GetCompleted
	// GetOverdue requests a snapshot of the Overdue list.
	GetOverdue
)

func (k Kind) String() string {
	switch k {
	case Release:
		return "release"
	case Complete:
		return "complete"
	case GetActive:
		return "get_active"
	case GetCompleted:
		return "get_completed"
	case GetOverdue:
		return "get_overdue"
	default:
		return "unknown"
	}
}

// Request is the message shape carried on REQ (spec.md §6): unused fields
// per Kind are left zero.
//
//   - Release carries Task (without ReleaseTime/AbsoluteDeadline — the DDS
//     core stamps those). For Aperiodic releases Task.AbsoluteDeadline must
//     already be set by the producer (spec.md §9's "aperiodic deadline" open
//     question) and is used verbatim.
//   - Complete carries only TaskID.
//   - The three Get* kinds carry neither field.
type Request struct {
	Kind   Kind
	Task   tasklist.Record
	TaskID uint32
}

// Response is the message shape carried on RESP (spec.md §6). Only the
// three Get* operations produce one; Release and Complete never reply.
type Response struct {
	Snapshot []tasklist.Record
}
