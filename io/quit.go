package io

import (
	"log"
	"os"
	"os/signal"
	"slices"
	"sync"
)

// Quit is an alert queue of cancellation requests. Alerts may be raised from
// any goroutine; the emulator loop drains them by polling QuitRequested.
type Quit struct {
	Verbose bool

	mutex   sync.Mutex
	alerts  []string
	quitted bool
	signals chan os.Signal
	done    chan struct{}
}

// Alert queues a cancellation request.
func (qc *Quit) Alert(reason string) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	qc.alerts = append(qc.alerts, reason)
}

// Alerts returns the reasons of every alert raised, oldest first.
func (qc *Quit) Alerts() (reasons []string) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	return slices.Clone(qc.alerts)
}

// QuitRequested returns true once any alert has been raised.
func (qc *Quit) QuitRequested() bool {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if !qc.quitted && len(qc.alerts) > 0 {
		qc.quitted = true
		if qc.Verbose {
			log.Printf("quit: %v", qc.alerts[0])
		}
	}

	return qc.quitted
}

// Reset drops all pending alerts.
func (qc *Quit) Reset() {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	qc.alerts = nil
	qc.quitted = false
}

// Notify raises an alert whenever one of the signals is delivered.
func (qc *Quit) Notify(sig ...os.Signal) {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if qc.signals != nil {
		signal.Notify(qc.signals, sig...)
		return
	}

	qc.signals = make(chan os.Signal, 1)
	qc.done = make(chan struct{})
	signal.Notify(qc.signals, sig...)

	go func(signals chan os.Signal, done chan struct{}) {
		for {
			select {
			case s := <-signals:
				qc.Alert(s.String())
			case <-done:
				return
			}
		}
	}(qc.signals, qc.done)
}

// Stop stops signal delivery started by Notify.
func (qc *Quit) Stop() {
	qc.mutex.Lock()
	defer qc.mutex.Unlock()

	if qc.signals == nil {
		return
	}

	signal.Stop(qc.signals)
	close(qc.done)
	qc.signals = nil
	qc.done = nil
}
