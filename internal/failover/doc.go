// Package failover replicates live show state to a single peer node.
//
// Events travel as one JSON envelope per UDP datagram:
//
//	{
//	  "version": 1,
//	  "eventId": "<uuid>",
//	  "source": "<node uuid>",
//	  "type": "cue_live" | "stop_all" | "overlay_text",
//	  "timestampUtc": "2026-01-02T15:04:05Z",
//	  "auth": "<hex HMAC-SHA256>",
//	  "payload": { ... }
//	}
//
// The auth field is HMAC-SHA256 keyed by the shared secret over
// eventId + "|" + type + "|" + compact JSON of the payload. Receivers drop,
// without error, any envelope that is incomplete, was sent by themselves,
// carries an event id seen among the last 512, or fails verification.
//
// Delivery is best-effort: no acknowledgements, no retries. Random event ids
// plus the bounded recent-set keep delivery idempotent across restarts
// without persisted sequence numbers.
package failover
