package commands

import (
	"strconv"

	"github.com/casual-mw/casual/errors"
)

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parse integer %q", s)
	}
	return n, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
