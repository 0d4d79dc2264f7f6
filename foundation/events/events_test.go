package events_test

import (
	"testing"

	"github.com/ddknet/node/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan out node events to subscribers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen two subscribers are registered.", testID)
		{
			evts := events.New()

			ch1 := evts.Acquire("one")
			ch2 := evts.Acquire("two")

			if again := evts.Acquire("one"); again != ch1 {
				t.Fatalf("\t%s\tTest %d:\tShould get the same channel for the same id.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same channel for the same id.", success, testID)

			evts.Send("viewer: block: 1")

			for i, ch := range []chan string{ch1, ch2} {
				select {
				case msg := <-ch:
					if msg != "viewer: block: 1" {
						t.Fatalf("\t%s\tTest %d:\tShould receive the event on subscriber %d: got %q", failed, testID, i, msg)
					}
				default:
					t.Fatalf("\t%s\tTest %d:\tShould receive the event on subscriber %d.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould receive the event on every subscriber.", success, testID)

			if err := evts.Release("one"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to release a subscriber: %v", failed, testID, err)
			}
			if _, open := <-ch1; open {
				t.Fatalf("\t%s\tTest %d:\tShould close the released channel.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould close the released channel.", success, testID)

			if err := evts.Release("one"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not release an unknown subscriber.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not release an unknown subscriber.", success, testID)

			if evts.Subscribers() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have one subscriber left: got %d", failed, testID, evts.Subscribers())
			}
			t.Logf("\t%s\tTest %d:\tShould have one subscriber left.", success, testID)

			evts.Shutdown()
			if _, open := <-ch2; open {
				t.Fatalf("\t%s\tTest %d:\tShould close every channel on shutdown.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould close every channel on shutdown.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a subscriber narrows the events by prefix.", testID)
		{
			evts := events.New()
			ch := evts.Acquire("blocks", "viewer: block", "viewer: undo")

			evts.Send("viewer: transaction: {}")
			evts.Send("viewer: block: {}")
			evts.Send("state: shutdown: started")
			evts.Send("viewer: undo: {}")

			if len(ch) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould receive only the matching events: got %d", failed, testID, len(ch))
			}
			if msg := <-ch; msg != "viewer: block: {}" {
				t.Fatalf("\t%s\tTest %d:\tShould receive the events in order: got %q", failed, testID, msg)
			}
			t.Logf("\t%s\tTest %d:\tShould receive only the matching events in order.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a subscriber is not reading.", testID)
		{
			evts := events.New()
			ch := evts.Acquire("slow")

			for i := 0; i < 500; i++ {
				evts.Send("event")
			}

			if len(ch) != cap(ch) {
				t.Fatalf("\t%s\tTest %d:\tShould fill the buffer and drop the rest: got %d of %d", failed, testID, len(ch), cap(ch))
			}
			t.Logf("\t%s\tTest %d:\tShould fill the buffer and drop the rest without blocking.", success, testID)
		}
	}
}
