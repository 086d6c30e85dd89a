package delivery

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const trackingPrefix = "AGM"

type uuidFactory struct{}

// NewIDFactory - creates a uuid based IDFactory.
func NewIDFactory() IDFactory {
	return uuidFactory{}
}

// NewID returns a random UUID string.
func (uuidFactory) NewID() string {
	return uuid.NewString()
}

// TrackingNumber returns AGM-YYYYMMDD-XXXXXXXX with a random uppercase hex suffix.
func (uuidFactory) TrackingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return trackingPrefix + "-" + now.UTC().Format("20060102") + "-" + suffix
}
