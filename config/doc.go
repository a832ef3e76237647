// Package config decodes a service's configuration with Viper.
//
// Sources, lowest precedence first: config.yml (found under cmd/<service>,
// config/ or the working directory), a .env file read by godotenv, the
// process environment (SERVER_PORT is tried as server.port and
// server_port), and finally explicit aliases such as GLADIA_API_KEY.
package config
