package changefeed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeed_PublishWakesWatchers(t *testing.T) {
	f := New()
	ch1, stop1 := f.Watch("B1")
	ch2, stop2 := f.Watch("B1")
	other, stop3 := f.Watch("B2")
	defer stop1()
	defer stop2()
	defer stop3()

	f.Publish("B1")

	for _, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("watcher not woken")
		}
	}

	select {
	case <-other:
		t.Fatal("unrelated watcher woken")
	default:
	}
}

func TestFeed_SignalsCoalesce(t *testing.T) {
	f := New()
	ch, stop := f.Watch("B1")
	defer stop()

	f.Publish("B1")
	f.Publish("B1")
	f.Publish("B1")

	<-ch
	select {
	case <-ch:
		t.Fatal("expected a single pending signal")
	default:
	}
}

func TestFeed_StopIsIdempotent(t *testing.T) {
	f := New()
	_, stop := f.Watch("B1")
	assert.Equal(t, 1, f.Len("B1"))

	stop()
	stop()

	assert.Equal(t, 0, f.Len("B1"))
	f.Publish("B1")
}
