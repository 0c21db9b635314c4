package walletstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	unlockAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_unlock_attempts_total",
		Help: "Password decryption attempts against stored keypairs.",
	})
	unlockFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_unlock_failures_total",
		Help: "Stored keypair decryptions that failed authentication.",
	})
	unlockThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_unlock_throttled_total",
		Help: "Unlock attempts rejected by the per-alias throttle.",
	})
	walletWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_file_writes_total",
		Help: "Successful wallet file persist operations.",
	})
)
