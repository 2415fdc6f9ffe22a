package tournament

import "time"

// Updater drives a Manager's clock using NanosToUpdate as the sleep
// interval instead of a fixed-rate ticker, so the manager is woken exactly
// when a surfaced value is due to change rather than on an arbitrary tick
// grid: a goroutine loop that reschedules its own timer after every
// wakeup instead of running on a fixed tick rate.
type Updater struct {
	manager *Manager
	now     func() time.Time

	stop chan struct{}
	done chan struct{}

	// Changed is sent a value every time Update runs, so callers (the panel
	// publisher, the HTTP snapshot broadcaster) know to regenerate and
	// rebroadcast a snapshot.
	Changed chan struct{}
}

// NewUpdater creates an Updater for manager. now defaults to time.Now.
func NewUpdater(manager *Manager, now func() time.Time) *Updater {
	if now == nil {
		now = time.Now
	}
	return &Updater{
		manager: manager,
		now:     now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		Changed: make(chan struct{}, 1),
	}
}

// Run blocks, driving the manager's clock until Stop is called.
func (u *Updater) Run() {
	defer close(u.done)
	for {
		now := u.now()
		u.manager.Update(now)

		select {
		case u.Changed <- struct{}{}:
		default:
		}

		d := time.Duration(u.manager.NanosToUpdate(now))
		if d <= 0 {
			d = time.Millisecond
		}
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-u.stop:
			timer.Stop()
			return
		}
	}
}

// Stop halts the updater loop and waits for it to exit.
func (u *Updater) Stop() {
	close(u.stop)
	<-u.done
}
