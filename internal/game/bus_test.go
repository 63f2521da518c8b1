package game

import (
	"reflect"
	"testing"
)

func TestObserversNotifiedInRegistrationOrder(t *testing.T) {
	b := NewBus()
	var order []string
	b.Subscribe(Observer{BoardChanged: func() { order = append(order, "first") }})
	b.Subscribe(Observer{BoardChanged: func() { order = append(order, "second") }})

	b.publish(sigBoard)

	if want := []string{"first", "second"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("delivery order = %v, want %v", order, want)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	calls := 0
	id := b.Subscribe(Observer{ScoreChanged: func() { calls++ }})

	b.publish(sigScore)
	b.Unsubscribe(id)
	b.publish(sigScore)

	if calls != 1 {
		t.Fatalf("observer called %d times, want 1", calls)
	}
}

func TestCombinedSignalsReachEveryCallback(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(Observer{
		BoardChanged: func() { got = append(got, "board") },
		ChatChanged:  func() { got = append(got, "chat") },
		ScoreChanged: func() { got = append(got, "score") },
	})

	b.publish(sigBoard | sigScore)

	if want := []string{"board", "score"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("callbacks = %v, want %v", got, want)
	}
}

func TestZeroSignalIsSilent(t *testing.T) {
	b := NewBus()
	calls := 0
	b.Subscribe(Observer{BoardChanged: func() { calls++ }})
	b.publish(0)
	if calls != 0 {
		t.Fatal("empty signal must not notify")
	}
}
