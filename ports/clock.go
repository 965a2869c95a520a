package ports

import (
	"time"
)

// Clock abstracts the evaluation clock so freshness scoring stays
// deterministic under test and snapshot recomputation.
type Clock interface {
	Now() time.Time
}
