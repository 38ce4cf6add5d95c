// Package influxdb records show telemetry in InfluxDB.
//
// Two measurements are written:
//
//	cue_live        one point per cue that goes live
//	                tags: node, cue_id, source, reason, screen
//	                fields: cue_name, layer
//	trigger_events  one point per control trigger received
//	                tags: node, kind, source
//	                fields: count
//
// Writes are non-blocking and batched by the official client; failures
// arrive asynchronously through SetOnError. A show never waits on
// InfluxDB.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	client.WriteTrigger("play_row", "osc")
package influxdb
