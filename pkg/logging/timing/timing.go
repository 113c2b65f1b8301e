package timing

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Timeit starts a timer and returns a closure that logs the elapsed time
// against name when called. Meant to be deferred:
//
//	defer timing.Timeit(log, "invoke")()
func Timeit(log *logrus.Entry, name string) func() {
	start := time.Now()
	return func() {
		log.WithFields(logrus.Fields{
			"timer":    name,
			"duration": time.Since(start).String(),
		}).Debug("timeit")
	}
}
