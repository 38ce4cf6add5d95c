// Package mqtt connects showcue to an MQTT broker.
//
// The broker carries everything that leaves the show node without being
// part of the failover pair:
//
//	showcue/system/status            node online/offline (retained, LWT)
//	showcue/program/live             last cue to go live (retained)
//	showcue/program/event/{type}     stop_all, overlay_text
//	showcue/render/{screen}/command  commands for remote render nodes
//	showcue/trigger                  plain-text show commands (ingress)
//	showcue/bridge/{name}/command    NDI/Syphon/SDI companion control
//
// The client reconnects on its own and restores subscriptions afterwards.
// Handlers run on paho's goroutines; a panic in a handler is recovered and
// logged.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.Trigger(), 1,
//	    func(topic string, payload []byte) error {
//	        oscServer.HandleText(payload, trigger.SourceMQTT)
//	        return nil
//	    })
package mqtt
