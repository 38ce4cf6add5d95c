// Package api serves the showcue HTTP control API and the WebSocket event
// hub.
//
// Control routes (play, preview, preload, stop, take, stop-all, overlay,
// timecode, hotkeys) hand work to the show engine, which runs it on the show
// loop and returns the result. Read routes report engine status, the cue
// list and recent show journal entries.
//
// When api.token is set, every route except /health requires
// "Authorization: Bearer <token>". WebSocket clients that cannot set
// headers may pass ?token= instead.
//
//	srv, err := api.New(deps)
//	if err := srv.Start(ctx); err != nil { ... }
//	defer srv.Close()
package api
