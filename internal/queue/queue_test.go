package queue

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cgartco6/asset-engine/internal/model"
)

func TestFIFOOrder(t *testing.T) {
	q := New()
	for i := 0; i < 5; i++ {
		q.Enqueue(model.Task{Kind: fmt.Sprintf("task-%d", i)})
	}

	for i := 0; i < 5; i++ {
		task, ok := q.DequeueWait(time.Second)
		if !ok {
			t.Fatalf("expected task %d, queue reported empty", i)
		}
		if want := fmt.Sprintf("task-%d", i); task.Kind != want {
			t.Fatalf("out of order: got %s, want %s", task.Kind, want)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be drained, len=%d", q.Len())
	}
}

func TestDequeueWaitTimeout(t *testing.T) {
	q := New()

	start := time.Now()
	_, ok := q.DequeueWait(50 * time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("expected timeout on empty queue")
	}
	if elapsed < 50*time.Millisecond {
		t.Fatalf("returned before timeout: %v", elapsed)
	}
}

func TestDequeueWaitWakesOnEnqueue(t *testing.T) {
	q := New()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Enqueue(model.Task{Kind: model.KindCreateAsset})
	}()

	task, ok := q.DequeueWait(2 * time.Second)
	if !ok {
		t.Fatal("expected task before timeout")
	}
	if task.Kind != model.KindCreateAsset {
		t.Fatalf("unexpected task kind %s", task.Kind)
	}
}

func TestConcurrentEnqueue(t *testing.T) {
	q := New()

	const submitters = 8
	const perSubmitter = 50

	var wg sync.WaitGroup
	wg.Add(submitters)
	for s := 0; s < submitters; s++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perSubmitter; i++ {
				q.Enqueue(model.Task{Kind: model.KindCreateAsset})
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		if _, ok := q.DequeueWait(10 * time.Millisecond); !ok {
			break
		}
		count++
	}
	if count != submitters*perSubmitter {
		t.Fatalf("lost tasks: got %d, want %d", count, submitters*perSubmitter)
	}
}
