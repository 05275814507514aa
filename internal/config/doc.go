// Package config provides centralized configuration management for the
// disclosure dashboard. It loads settings from multiple sources, validates
// them and hands typed sections to the rest of the application.
//
// # Configuration Sources
//
// Configuration is assembled in order of increasing precedence:
//
//  1. Default() values
//  2. YAML file (--config flag, config.yaml or configs/config.yaml)
//  3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern INSIDERDASH_<SECTION>_<KEY>:
//
//	INSIDERDASH_SERVER_PORT=8080
//	INSIDERDASH_PIPELINE_DATA_FILE=/srv/data/movimentacoes.csv
//	INSIDERDASH_PIPELINE_NUMBER_FORMAT=localized
//	INSIDERDASH_PIPELINE_CACHE_TTL=10m
//	INSIDERDASH_LOGGING_LEVEL=debug
//
// The header mapping (pipeline.fields) can only be set from YAML:
//
//	pipeline:
//	  fields:
//	    role:
//	      headers: ["Tipo_Cargo", "Cargo"]
//	    volume:
//	      contains: ["volume", "valor"]
//
// Relative paths in a YAML file are resolved against the file's directory.
//
// # Validation
//
// Struct constraints are enforced with go-playground/validator; unknown
// canonical field names in required_fields or fields are rejected.
package config
