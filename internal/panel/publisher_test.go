package panel

import (
	"testing"
	"time"
)

const testFrameLen = 8

func TestPublisherDeliversFrameToClient(t *testing.T) {
	pub := NewPublisher("127.0.0.1:0", testFrameLen)
	if err := pub.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pub.Stop()

	addr := pub.listener.Addr().String()
	client := NewClient(addr, testFrameLen, nil)

	received := make(chan []byte, 4)
	client.onFrame = func(frame []byte) { received <- append([]byte(nil), frame...) }
	go client.Run()
	defer client.Stop()

	waitForClientCount(t, pub, 1)

	frame := make([]byte, testFrameLen)
	for i := range frame {
		frame[i] = byte(i)
	}
	pub.Publish(frame)

	select {
	case got := <-received:
		if string(got) != string(frame) {
			t.Errorf("received frame = %v, want %v", got, frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published frame")
	}
}

func TestPublisherSendsLastFrameToNewClient(t *testing.T) {
	pub := NewPublisher("127.0.0.1:0", testFrameLen)
	if err := pub.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pub.Stop()

	frame := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	pub.Publish(frame)

	addr := pub.listener.Addr().String()
	client := NewClient(addr, testFrameLen, nil)
	received := make(chan []byte, 4)
	client.onFrame = func(f []byte) { received <- append([]byte(nil), f...) }
	go client.Run()
	defer client.Stop()

	select {
	case got := <-received:
		if string(got) != string(frame) {
			t.Errorf("late-joining client got %v, want %v", got, frame)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the backlog frame")
	}
}

func TestPublishRejectsWrongLength(t *testing.T) {
	pub := NewPublisher("127.0.0.1:0", testFrameLen)
	if err := pub.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pub.Stop()

	pub.Publish(make([]byte, testFrameLen-1))

	pub.frameMu.Lock()
	last := pub.lastFrame
	pub.frameMu.Unlock()
	if last != nil {
		t.Error("a wrong-length frame was accepted as lastFrame")
	}
}

func waitForClientCount(t *testing.T, pub *Publisher, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _, _ := pub.Stats(); n == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for client count to reach %d", want)
}
