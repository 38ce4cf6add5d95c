// Package config loads and validates showcue configuration.
//
// Values come from three layers, later ones winning:
//  1. Built-in defaults (OSC on 9000, Fade at 600 ms, Art-Net 6454/0,
//     failover 9101/9101, backup timeout 1500 ms)
//  2. The YAML file
//  3. SHOWCUE_* environment variables
//
// Secrets (the failover shared key, MQTT and InfluxDB credentials, the API
// token) should come from the environment rather than the file.
//
//	cfg, err := config.Load("/etc/showcue/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Node.ID)
package config
