// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"strconv"
	"sync"
)

// ContainerSemaphore returns the process-wide channel that bounds how many
// container-backed tests run at once. Acquire a slot by sending, release by
// receiving:
//
//	sem := testutil.ContainerSemaphore()
//	sem <- struct{}{}
//	defer func() { <-sem }()
//
// RUSTLE_TEST_CONTAINER_PARALLEL overrides the slot count. The default of
// min(GOMAXPROCS, 2) keeps constrained CI runners from hanging under too
// many concurrent Ubuntu containers.
var ContainerSemaphore = sync.OnceValue(func() chan struct{} {
	slots := min(runtime.GOMAXPROCS(0), 2)
	if v := os.Getenv("RUSTLE_TEST_CONTAINER_PARALLEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			slots = n
		}
	}
	return make(chan struct{}, slots)
})
