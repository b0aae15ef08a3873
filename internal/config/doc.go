// Package config provides centralized configuration management for SalaryPulse.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//  1. Default values (Default)
//  2. A YAML file (explicit path, else config.yaml or configs/config.yaml)
//  3. Environment variables prefixed with SALARY_
//
// # Environment Variables
//
//	SALARY_SERVER_PORT=8080
//	SALARY_DATA_CSV_PATH=/srv/salary_data.csv
//	SALARY_DATA_NOMINAL_COLUMNS=overall,mining,finance
//	SALARY_CHART_FORMAT=png
//	SALARY_LOGGING_LEVEL=debug
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time, so a
// bad port, an unknown chart format or a missing dataset path fails before
// anything is served.
package config
