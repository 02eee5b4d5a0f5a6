package journal

import (
	"context"

	"github.com/jacobsa/syncutil"

	"github.com/vcaputo/jio/internal/jioerr"
)

// PageSize (P) and Pages (K) are the read-cache constants spec §6.1
// fixes: 8 pages of 8 KiB apiece per journal.
const (
	PageSize = 8192
	Pages    = 8
)

// page is one fixed-size cache buffer (spec §3 "ReadCache"). valid is
// false for a page that has never been filled, or that's mid-fill
// ("pending" in spec terms — invalidated before the read that will
// repopulate it completes).
type page struct {
	offset int64
	length int
	valid  bool
	buf    [PageSize]byte

	prev, next *page
}

// ReadCache is the per-journal small-LRU cache spec §4.4 describes: a
// doubly-linked ordering of exactly Pages buffers, adapted from the
// pack's generic singly-linked queue into a structure supporting O(1)
// move-to-tail, which a plain FIFO queue cannot do. Guarded by an
// InvariantMutex the way gcsfuse guards per-inode mutable state.
type ReadCache struct {
	Mu syncutil.InvariantMutex

	pages      [Pages]page
	head, tail *page // head = least-recently-used, tail = most-recently-used
}

// NewReadCache builds an empty, all-invalid cache with its Pages linked
// head (LRU) to tail (MRU) in array order.
func NewReadCache() *ReadCache {
	c := &ReadCache{}
	for i := range c.pages {
		p := &c.pages[i]
		if i > 0 {
			p.prev = &c.pages[i-1]
		}
		if i < Pages-1 {
			p.next = &c.pages[i+1]
		}
	}
	c.head = &c.pages[0]
	c.tail = &c.pages[Pages-1]
	c.Mu = syncutil.NewInvariantMutex(c.checkInvariants)
	return c
}

func (c *ReadCache) checkInvariants() {
	n := 0
	for p := c.head; p != nil; p = p.next {
		n++
		if n > Pages {
			panic("read cache LRU list is cyclic or longer than Pages")
		}
	}
	if n != Pages {
		panic("read cache LRU list does not contain exactly Pages entries")
	}
}

// moveToTail unlinks p and relinks it as the new tail (most recently
// used), per spec §4.4 "move buffer to LRU tail".
func (c *ReadCache) moveToTail(p *page) {
	if p == c.tail {
		return
	}
	if p.prev != nil {
		p.prev.next = p.next
	} else {
		c.head = p.next
	}
	if p.next != nil {
		p.next.prev = p.prev
	} else {
		c.tail = p.prev
	}

	p.prev = c.tail
	p.next = nil
	if c.tail != nil {
		c.tail.next = p
	}
	c.tail = p
	if c.head == nil {
		c.head = p
	}
}

// findCovering returns the page fully covering [offset, offset+length),
// per spec §4.4's hit predicate.
func (c *ReadCache) findCovering(offset int64, length int) *page {
	for p := c.head; p != nil; p = p.next {
		if p.valid && offset >= p.offset && offset+int64(length) <= p.offset+int64(p.length) {
			return p
		}
	}
	return nil
}

// pageReader is the subset of Journal's read path ReadCache needs: an
// uncached positioned read, routed through the journal's ioq.Engine by
// the caller.
type pageReader func(ctx context.Context, buf []byte, offset int64) (int, error)

// Read satisfies a read request of length bytes at offset, per spec
// §4.4's full hit/miss-small/miss-large policy. length > PageSize always
// takes the miss-large path and never touches the cache.
func (c *ReadCache) Read(ctx context.Context, name string, read pageReader, dst []byte, offset int64) (int, error) {
	length := len(dst)

	c.Mu.Lock()
	defer c.Mu.Unlock()

	if length <= PageSize {
		if p := c.findCovering(offset, length); p != nil {
			n := copy(dst, p.buf[offset-p.offset:offset-p.offset+int64(length)])
			c.moveToTail(p)
			return n, nil
		}

		p := c.head
		c.moveToTail(p)
		p.valid = false

		n, err := read(ctx, p.buf[:PageSize], offset)
		if err != nil {
			return 0, err
		}
		if n < length {
			return 0, jioerr.Format(name, "short read at offset %d (%d of %d bytes)", offset, n, length)
		}

		p.offset = offset
		p.length = n
		p.valid = true

		return copy(dst, p.buf[:length]), nil
	}

	n, err := read(ctx, dst, offset)
	if err != nil {
		return 0, err
	}
	if n < length {
		return 0, jioerr.Format(name, "short read at offset %d (%d of %d bytes)", offset, n, length)
	}
	return n, nil
}
