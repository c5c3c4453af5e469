package midi

import (
	"encoding/base64"
	"os"

	"github.com/pkg/errors"
)

func ReadFile(path string) (Result, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "Error reading midi file %s", path)
	}
	return Parse(dat)
}

// ParseBase64 accepts the standard base64 encoding uploads arrive in.
func ParseBase64(encoded string) (Result, error) {
	dat, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Result{}, errors.Wrapf(ErrUnreadable, "invalid base64: %v", err)
	}
	return Parse(dat)
}
