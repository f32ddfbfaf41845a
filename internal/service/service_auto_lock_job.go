// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-key-vault/internal/logger"
)

// minAutoLockTick bounds how often the job polls the session.
const minAutoLockTick = 10 * time.Millisecond

type autoLockJob struct {
	session  *VaultSession
	settings SettingsService
	timeout  time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoLockJob creates a job that locks session after timeout of
// inactivity while the auto_lock setting is on. The job is idle until Run
// is called.
func NewAutoLockJob(session *VaultSession, settings SettingsService, timeout time.Duration, logger *logger.Logger) AutoLockJob {
	return &autoLockJob{
		session:  session,
		settings: settings,
		timeout:  timeout,
		logger:   logger,
	}
}

// Timeout implements AutoLockJob.
func (j *autoLockJob) Timeout() time.Duration {
	return j.timeout
}

// Run implements AutoLockJob. It stops any previously running job, then
// launches a background goroutine that checks the session every quarter of
// the timeout. The goroutine exits when ctx is cancelled or Stop is called.
func (j *autoLockJob) Run(ctx context.Context) {
	if j.timeout <= 0 {
		return
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	interval := max(j.timeout/4, minAutoLockTick)

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.check(jobCtx)
			}
		}
	}()
}

func (j *autoLockJob) check(ctx context.Context) {
	if !j.session.IsUnlocked() {
		return
	}

	enabled, err := j.settings.AutoLock(ctx)
	if err != nil {
		j.logger.Err(err).Str("func", "autoLockJob.check").Msg("failed to read auto_lock setting")
		return
	}
	if !enabled {
		return
	}

	j.session.LockIfIdle(j.timeout)
}

// Stop implements AutoLockJob. It cancels the background goroutine's context and
// blocks until the goroutine has fully exited. Safe to call when the job is not
// running (no-op in that case).
func (j *autoLockJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
