package certs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "/c/cert.pem", Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: "/c/luciuz.test", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "/c/luciuz.test", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/c/cert.pem", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/c/cert.pem", Op: fsnotify.Remove}, false},
		{"dotfile", fsnotify.Event{Name: "/c/.cert.pem.swp", Op: fsnotify.Write}, false},
		{"backup", fsnotify.Event{Name: "/c/cert.pem~", Op: fsnotify.Write}, false},
		{"autocert temp", fsnotify.Event{Name: "/c/luciuz.test.tmp123", Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relevant(tt.event); got != tt.want {
				t.Errorf("relevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDebouncer_Collapses(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("callback ran %d times, want 1", n)
	}
}

func TestDebouncer_Stop(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.trigger(func() { calls.Add(1) })
	d.stop()
	d.trigger(func() { calls.Add(1) })
	time.Sleep(80 * time.Millisecond)

	if n := calls.Load(); n != 0 {
		t.Errorf("callback ran %d times after stop, want 0", n)
	}
}
