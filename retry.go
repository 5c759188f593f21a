package main

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// Bounded attempts with a short per-read timeout: a hung external call must
// not block the next scheduled scan.
var (
	readAttempts = retry.Attempts(3)
	retryDelay   = retry.Delay(200 * time.Millisecond)
	lastErrOnly  = retry.LastErrorOnly(true)
)

const (
	chainReadTimeout = 10 * time.Second
)
