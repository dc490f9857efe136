package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Configuration failures here are fatal: the service cannot run without a
// target spreadsheet and a service credential, and neither is retryable.
var (
	ErrMissingSpreadsheetId = errors.New("SPREADSHEET_ID is not set")
	ErrMissingCredentials   = errors.New("GOOGLE_SERVICE_ACCOUNT_JSON is not set")
)

func init() {
	// Load env from .env
	godotenv.Load()
}

type SheetsConfig struct {
	SpreadsheetId   string
	CredentialsJSON []byte
}

// LoadSheetsConfig reads the spreadsheet target and credential from the
// environment. GOOGLE_SERVICE_ACCOUNT_JSON may hold either the credential
// JSON itself or a path to a file containing it.
func LoadSheetsConfig() (SheetsConfig, error) {
	spreadsheetId := strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	if spreadsheetId == "" {
		return SheetsConfig{}, ErrMissingSpreadsheetId
	}

	raw := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if raw == "" {
		return SheetsConfig{}, ErrMissingCredentials
	}

	cred := []byte(raw)
	if !strings.HasPrefix(raw, "{") {
		b, err := os.ReadFile(raw)
		if err != nil {
			return SheetsConfig{}, err
		}
		cred = b
	}

	return SheetsConfig{
		SpreadsheetId:   spreadsheetId,
		CredentialsJSON: cred,
	}, nil
}
