// Package config loads typed configuration from environment variables.
//
// Struct fields are tagged for github.com/caarlos0/env; a .env file in the
// working directory is applied once through github.com/joho/godotenv before
// the first parse. Parsed values are cached per type (and prefix), so
// packages can call Load freely.
//
//	var cfg sessionid.Config
//	config.MustLoad(&cfg)
//
// LoadWithPrefix namespaces the variables of one struct type:
//
//	var tab1 sessionid.Config
//	err := config.LoadWithPrefix("TAB1_", &tab1) // reads TAB1_SESSION_IDLE_TIMEOUT_SECONDS
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer.
package config
