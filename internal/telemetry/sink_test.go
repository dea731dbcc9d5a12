package telemetry

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

type memStore struct {
	mu      sync.Mutex
	records []Record
	failing bool
	calls   int
}

func (m *memStore) Append(batch []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failing {
		return errors.New("disk full")
	}
	m.records = append(m.records, batch...)
	return nil
}

func (m *memStore) setFailing(v bool) {
	m.mu.Lock()
	m.failing = v
	m.mu.Unlock()
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func TestSinkDrainsPeriodically(t *testing.T) {
	g := NewWithT(t)
	st := &memStore{}
	s := NewSink(st, Options{Interval: 5 * time.Millisecond})
	s.Start()
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.Enqueue(Record{BallID: 1, X: float64(i)})
	}

	g.Eventually(st.count, time.Second, 5*time.Millisecond).Should(Equal(10))
	g.Expect(s.Stats().Written).To(BeEquivalentTo(10))
	g.Expect(s.Stats().Pending).To(BeZero())
}

func TestSinkRetriesAfterFailure(t *testing.T) {
	g := NewWithT(t)
	st := &memStore{failing: true}

	var mu sync.Mutex
	var reported []error
	s := NewSink(st, Options{OnError: func(err error) {
		mu.Lock()
		reported = append(reported, err)
		mu.Unlock()
	}})

	s.Enqueue(Record{BallID: 7, X: 1})
	s.Enqueue(Record{BallID: 7, X: 2})
	g.Expect(s.Flush()).To(HaveOccurred())
	g.Expect(s.Stats().Pending).To(Equal(2))
	g.Expect(s.Stats().Failures).To(BeEquivalentTo(1))

	s.Enqueue(Record{BallID: 7, X: 3})
	st.setFailing(false)
	g.Expect(s.Flush()).To(Succeed())

	g.Expect(st.records).To(HaveLen(3))
	for i, r := range st.records {
		g.Expect(r.X).To(Equal(float64(i + 1)))
	}

	mu.Lock()
	defer mu.Unlock()
	g.Expect(reported).To(HaveLen(1))
}

func TestSinkCloseFlushes(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "diag.log")
	s := NewSink(NewFileStore(path), Options{Interval: time.Hour})
	s.Start()

	for i := 0; i < 25; i++ {
		s.Enqueue(Record{Time: time.Now(), BallID: int64(i % 5), X: 1, Y: 2})
	}
	g.Expect(s.Close()).To(Succeed())

	records, err := ReadLog(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(records).To(HaveLen(25))

	// second close is a no-op
	g.Expect(s.Close()).To(Succeed())
}

func TestSinkCloseDropsOnFailure(t *testing.T) {
	g := NewWithT(t)
	st := &memStore{failing: true}
	s := NewSink(st, Options{})

	s.Enqueue(Record{BallID: 1})
	g.Expect(s.Close()).To(HaveOccurred())

	stats := s.Stats()
	g.Expect(stats.Dropped).To(BeEquivalentTo(1))
	g.Expect(stats.Pending).To(BeZero())
}
