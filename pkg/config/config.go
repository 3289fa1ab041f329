// Package config loads application configuration from environment
// variables, with .env files honored when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig
	Report ReportConfig
	Output OutputConfig
}

type OCRConfig struct {
	Binary   string
	Language string
	Deskew   bool
}

type ReportConfig struct {
	// RowLimit caps each reconciliation section.
	RowLimit int
	// SupplierFilter narrows the manual reconciliation by supplier name.
	SupplierFilter string
}

type OutputConfig struct {
	Dir       string
	WriteJSON bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OCR: OCRConfig{
			Binary:   getEnv("OCR_BINARY", "ocrmypdf"),
			Language: getEnv("OCR_LANGUAGE", "eng"),
			Deskew:   getEnvAsBool("OCR_DESKEW", true),
		},
		Report: ReportConfig{
			RowLimit:       getEnvAsInt("REPORT_ROW_LIMIT", 100),
			SupplierFilter: getEnv("REPORT_SUPPLIER_FILTER", ""),
		},
		Output: OutputConfig{
			Dir:       getEnv("OUTPUT_DIR", "out"),
			WriteJSON: getEnvAsBool("OUTPUT_JSON", false),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
