package saxon

import (
	"runtime"
)

// osThread runs functions on one locked OS thread. Isolate thread handles are
// only valid on the OS thread that created them.
type osThread struct {
	calls chan func()
	done  chan struct{}
}

func startOSThread() *osThread {
	t := &osThread{
		calls: make(chan func()),
		done:  make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *osThread) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.done)
	for fn := range t.calls {
		fn()
	}
}

// do runs fn on the locked thread and waits for it to return.
func (t *osThread) do(fn func()) {
	finished := make(chan struct{})
	t.calls <- func() {
		defer close(finished)
		fn()
	}
	<-finished
}

func (t *osThread) stop() {
	close(t.calls)
	<-t.done
}
