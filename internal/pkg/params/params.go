package params

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"novastay/internal/domain"

	"github.com/gin-gonic/gin"
)

func ID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// Date parses "2006-01-02". Empty input gives nil.
func Date(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%q is not a YYYY-MM-DD date", v)
	}
	return &t, nil
}

// Time accepts RFC 3339 or a plain date (midnight UTC). Empty input gives nil.
func Time(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return Date(v)
}

// List flattens repeated and comma separated query values.
func List(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
