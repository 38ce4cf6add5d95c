// Package showlog records what happened during a show.
//
// Every cue that goes live, every global stop, overlay change and verified
// peer event is written to the show_events table in SQLite. The journal is
// the operator's after-show record and backs the /api/v1/events endpoint.
//
// Writes from the show loop go through a Writer, which queues entries and
// inserts them on its own goroutine so a slow disk never stalls playback.
package showlog
