// Package config loads and validates DeviceLink configuration.
//
// Sources, lowest precedence first:
//   - built-in defaults
//   - a .env file next to the YAML file (never replaces real environment variables)
//   - the YAML file itself
//   - DEVICELINK_* environment variables
//
// Secrets (JWT secret, MQTT password, InfluxDB token) belong in the environment,
// not in the committed YAML file.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.API.Port)
package config
