package alignment

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-sunset-notification/internal/domain"
)

// FindNearestHourIndex returns the index of the timestamp closest to target.
// timestamps must be ordered ascending. A tie resolves to the earlier
// sample; targets outside the series clamp to the first or last index.
func FindNearestHourIndex(target time.Time, timestamps []time.Time) (int, error) {
	if len(timestamps) == 0 {
		return 0, fmt.Errorf("%w: empty hourly series", domain.ErrInvalidInput)
	}

	for i, ts := range timestamps {
		if ts.Before(target) {
			continue
		}
		if i == 0 {
			return 0, nil
		}
		after := ts.Sub(target)
		before := target.Sub(timestamps[i-1])
		if after < before {
			return i, nil
		}
		return i - 1, nil
	}

	return len(timestamps) - 1, nil
}
