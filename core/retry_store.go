package core

import (
	"errors"
	"log"
	"time"

	"github.com/lattice-web/lattice/contracts"
)

// RetryStore retries store operations that fail with a transient error
// (marked contracts.RetryErr by the inner store). Anything else passes
// through untouched; retrying a deterministic failure is pointless.
type RetryStore struct {
	inner    contracts.StateStore
	maxRetry int
	sleep    func(duration time.Duration)
}

func NewRetryStore(inner contracts.StateStore, maxRetry int, sleep func(duration time.Duration)) *RetryStore {
	return &RetryStore{inner: inner, maxRetry: maxRetry, sleep: sleep}
}

func (this *RetryStore) Put(id string, state []byte) (err error) {
	for x := 0; x <= this.maxRetry; x++ {
		err = this.inner.Put(id, state)
		if err == nil {
			return nil
		}
		if !errors.Is(err, contracts.RetryErr) {
			return err
		}
		if x < this.maxRetry {
			log.Println("[WARN] state write failed, retry imminent.")
			this.sleep(time.Second * 3)
		}
	}
	return err
}

func (this *RetryStore) Get(id string) (state []byte, err error) {
	for x := 0; x <= this.maxRetry; x++ {
		state, err = this.inner.Get(id)
		if err == nil {
			return state, nil
		}
		if !errors.Is(err, contracts.RetryErr) {
			return nil, err
		}
		if x < this.maxRetry {
			log.Println("[WARN] state read failed, retry imminent.")
			this.sleep(time.Second * 3)
		}
	}
	return nil, err
}
