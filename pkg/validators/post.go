package validators

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrMissingFields = errors.New("please fill in all required fields")
	ErrInvalidPrice  = errors.New("price must be a whole number of 0 or more")
)

// PostValidator checks the required listing fields and parses price
func PostValidator(title, content, price, category string) (int64, error) {
	if title == "" || content == "" || price == "" || category == "" {
		return 0, ErrMissingFields
	}

	p, err := strconv.ParseInt(strings.TrimSpace(price), 10, 64)
	if err != nil || p < 0 {
		return 0, ErrInvalidPrice
	}

	return p, nil
}
