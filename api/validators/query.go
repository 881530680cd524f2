package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter. A missing or blank
// value yields defaultVal; anything present must parse and land inside the
// inclusive [min, max] range.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be a whole number").
			WithDetails(map[string]string{key: "must be a whole number"})
	}
	if value < min {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be at least %d", key, min)).
			WithDetails(map[string]string{key: fmt.Sprintf("must be at least %d", min)})
	}
	if value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must be at most %d", key, max)).
			WithDetails(map[string]string{key: fmt.Sprintf("must be at most %d", max)})
	}
	return value, nil
}
