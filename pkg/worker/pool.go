package worker

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	ErrPoolClosed = errors.New("pool is closed")
)

// Pool bounds the number of jobs running at once.
type Pool struct {
	limit   int
	tickets chan int
	running atomic.Int32
}

// NewPool creates a pool running at most limit jobs concurrently.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = 1
	}

	p := &Pool{
		limit:   limit,
		tickets: make(chan int, limit),
	}
	for i := 0; i < limit; i++ {
		p.tickets <- i
	}
	return p
}

// Do blocks until a slot is free or ctx is done, then runs job in its own
// goroutine. The returned ticket identifies the slot the job occupies.
func (p *Pool) Do(ctx context.Context, job func()) (ticket int, err error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	select {
	case <-ctx.Done():
		return -1, ctx.Err()
	case t, ok := <-p.tickets:
		if !ok {
			return -1, ErrPoolClosed
		}
		ticket = t
	}

	p.running.Add(1)
	go func() {
		defer func() {
			p.running.Add(-1)
			p.tickets <- ticket
		}()
		if job != nil {
			job()
		}
	}()
	return ticket, nil
}

// Wait blocks until every submitted job has finished and closes the pool.
func (p *Pool) Wait() {
	for i := 0; i < p.limit; i++ {
		<-p.tickets
	}
	close(p.tickets)
}

// Running returns the number of jobs in progress.
func (p *Pool) Running() int {
	return int(p.running.Load())
}

func (p *Pool) Limit() int {
	return p.limit
}
