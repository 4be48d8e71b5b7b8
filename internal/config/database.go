// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Credentialed reports whether static AWS credentials were supplied; otherwise
// the SDK's default provider chain is used.
func (d *DynamoConfig) Credentialed() bool {
	return d.AccessKeyID != "" && d.SecretAccessKey != ""
}
