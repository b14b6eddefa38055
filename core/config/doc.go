// Package config provides configuration management for jobsync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Sheets: collaboration service token, base URL, timeouts
//   - Jobnum: state sheet location, required column names, exclusion
//     patterns, format override, duplicate-suffix policy, retry bounds
//   - Storage/Archive: S3-compatible credentials for state snapshots
//   - Server: HTTP trigger port and API key
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sheets.BaseURL)
package config
