package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBusinessID mints a human-facing identifier such as STU-2026-9F3A21B4.
// Internal primary keys remain plain UUIDs.
func NewBusinessID(prefix string, now time.Time) string {
	token := strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
	return fmt.Sprintf("%s-%d-%s", prefix, now.Year(), token)
}
