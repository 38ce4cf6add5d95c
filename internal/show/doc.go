// Package show runs a node's cue engine on a single goroutine.
//
// Loop serialises every state change: control ingresses post trigger
// events, timers post their callbacks, and HTTP handlers use Do to run a
// function on the loop and wait for it. Engine lives on that loop. It maps
// events to the playback controller and fans each cue that goes live out
// to the failover peer, the backup trigger, MQTT, InfluxDB, the show
// journal and the WebSocket hub.
//
// Events replayed from the failover peer are executed locally but not
// published back: a one-shot suppression flag per event type is set before
// the local call and always cleared after it.
package show
