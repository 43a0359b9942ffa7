package pubsub

import (
	"testing"
	"time"
)

func drain(t *testing.T, sub *Subscription[int], want int) []int {
	t.Helper()
	var got []int
	timeout := time.After(time.Second)
	for len(got) < want {
		select {
		case v, ok := <-sub.C():
			if !ok {
				return got
			}
			got = append(got, v)
		case <-timeout:
			t.Fatalf("timed out waiting for %d messages, got %v", want, got)
		}
	}
	return got
}

func TestTopicPublishUnsubscribe(t *testing.T) {
	topic := NewTopic[int]()

	sub1 := topic.Subscribe()

	topic.Publish(1)
	topic.Publish(2)

	got := drain(t, sub1, 2)
	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("sub1 first batch = %v, want [1 2]", got)
	}

	sub2 := topic.Subscribe()

	topic.Publish(3)
	topic.Publish(4)

	got1 := drain(t, sub1, 2)
	if got1[0] != 3 || got1[1] != 4 {
		t.Fatalf("sub1 second batch = %v, want [3 4]", got1)
	}
	got2 := drain(t, sub2, 2)
	if got2[0] != 3 || got2[1] != 4 {
		t.Fatalf("sub2 second batch = %v, want [3 4]", got2)
	}

	if sub1.Disconnected() {
		t.Fatalf("sub1 disconnected before Unsubscribe")
	}

	sub1.Unsubscribe()

	if !sub1.Disconnected() {
		t.Fatalf("sub1 not disconnected after Unsubscribe")
	}
	if sub2.Disconnected() {
		t.Fatalf("sub2 disconnected unexpectedly")
	}

	topic.Publish(5)
	topic.Publish(6)

	if _, ok := <-sub1.C(); ok {
		t.Fatalf("sub1 channel still delivering after unsubscribe")
	}

	got2 = drain(t, sub2, 2)
	if got2[0] != 5 || got2[1] != 6 {
		t.Fatalf("sub2 third batch = %v, want [5 6]", got2)
	}

	sub2.Unsubscribe()

	topic.Publish(7)

	if n := topic.SubscriberCount(); n != 0 {
		t.Fatalf("SubscriberCount() = %d, want 0", n)
	}
}

func TestTopicNoSubscribers(t *testing.T) {
	topic := NewTopic[string]()
	topic.Publish("nobody home")
}

func TestTopicShutdown(t *testing.T) {
	topic := NewTopic[int]()
	sub := topic.Subscribe()
	topic.Shutdown()

	if !sub.Disconnected() {
		t.Fatalf("subscription not disconnected after Shutdown")
	}
	if _, ok := <-sub.C(); ok {
		t.Fatalf("channel still open after Shutdown")
	}
}
