// Package config handles loading and validating recordvault configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (plus an optional .env file)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (the JWT signing secret) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - There is no built-in signing secret: the service refuses to start without one
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
