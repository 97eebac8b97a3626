package codecache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppcdbt/codecache"
	"github.com/sarchlab/ppcdbt/config"
	"github.com/sarchlab/ppcdbt/translator"
)

func trace(pc uint32, n int) *translator.Trace {
	return &translator.Trace{StartPC: pc, NumInstructions: n}
}

var _ = Describe("Cache", func() {
	var c *codecache.Cache

	BeforeEach(func() {
		// 2 sets, 2 ways. PCs 0x1000, 0x1008 and 0x1010 share set 0.
		c = codecache.New(codecache.Config{Entries: 4, Ways: 2})
	})

	Describe("Lookup", func() {
		It("should miss on a cold cache", func() {
			t, ok := c.Lookup(0x1000)
			Expect(ok).To(BeFalse())
			Expect(t).To(BeNil())

			stats := c.Stats()
			Expect(stats.Lookups).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
		})

		It("should hit after insert", func() {
			tr := trace(0x1000, 7)
			Expect(c.Insert(tr)).To(BeNil())

			got, ok := c.Lookup(0x1000)
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(tr))
			Expect(c.Stats().Hits).To(Equal(uint64(1)))
			Expect(c.Stats().HitRate()).To(Equal(1.0))
		})

		It("should not confuse traces in the same set", func() {
			c.Insert(trace(0x1000, 1))
			c.Insert(trace(0x1008, 2))

			got, ok := c.Lookup(0x1008)
			Expect(ok).To(BeTrue())
			Expect(got.Len()).To(Equal(2))
		})
	})

	Describe("TraceLength", func() {
		It("should report cached lengths without counting a lookup", func() {
			c.Insert(trace(0x2000, 12))

			n, ok := c.TraceLength(0x2000)
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(12))

			_, ok = c.TraceLength(0x2004)
			Expect(ok).To(BeFalse())
			Expect(c.Stats().Lookups).To(BeZero())
		})
	})

	Describe("Replacement", func() {
		It("should replace a trace with the same start PC in place", func() {
			c.Insert(trace(0x1000, 1))
			Expect(c.Insert(trace(0x1000, 5))).To(BeNil())

			n, _ := c.TraceLength(0x1000)
			Expect(n).To(Equal(5))
			Expect(c.Len()).To(Equal(1))
		})

		It("should evict the least recently used trace of a full set", func() {
			first := trace(0x1000, 1)
			second := trace(0x1008, 2)
			c.Insert(first)
			c.Insert(second)

			_, ok := c.Lookup(0x1000)
			Expect(ok).To(BeTrue())

			evicted := c.Insert(trace(0x1010, 3))
			Expect(evicted).To(BeIdenticalTo(second))
			Expect(c.Stats().Evictions).To(Equal(uint64(1)))

			_, ok = c.Lookup(0x1008)
			Expect(ok).To(BeFalse())
			_, ok = c.Lookup(0x1000)
			Expect(ok).To(BeTrue())
		})

		It("should not evict from other sets", func() {
			c.Insert(trace(0x1000, 1))
			c.Insert(trace(0x1004, 1))
			c.Insert(trace(0x1008, 1))
			c.Insert(trace(0x100C, 1))

			Expect(c.Len()).To(Equal(4))
			Expect(c.Stats().Evictions).To(BeZero())
		})
	})

	Describe("Invalidation", func() {
		It("should drop a single trace", func() {
			c.Insert(trace(0x1000, 1))

			Expect(c.Invalidate(0x1000)).To(BeTrue())
			Expect(c.Invalidate(0x1000)).To(BeFalse())

			_, ok := c.Lookup(0x1000)
			Expect(ok).To(BeFalse())
			Expect(c.Stats().Invalidations).To(Equal(uint64(1)))
		})

		It("should drop traces starting in a range", func() {
			c.Insert(trace(0x1000, 1))
			c.Insert(trace(0x1004, 1))
			c.Insert(trace(0x1008, 1))

			Expect(c.InvalidateRange(0x1004, 0x1008)).To(Equal(1))
			Expect(c.Len()).To(Equal(2))
		})

		It("should flush everything but keep statistics", func() {
			c.Insert(trace(0x1000, 1))
			c.Insert(trace(0x1004, 1))
			c.Lookup(0x1000)

			c.Flush()

			Expect(c.Len()).To(BeZero())
			Expect(c.Stats().Inserts).To(Equal(uint64(2)))

			c.ResetStats()
			Expect(c.Stats()).To(Equal(codecache.Stats{}))
		})
	})

	Describe("Configuration", func() {
		It("should size itself from options", func() {
			opts := config.DefaultOptions()
			opts.CodeCacheEntries = 64
			opts.CodeCacheWays = 4

			cc := codecache.FromOptions(opts)
			Expect(cc.Config()).To(Equal(codecache.Config{Entries: 64, Ways: 4}))
		})

		It("should round entries down to whole sets", func() {
			cc := codecache.New(codecache.Config{Entries: 10, Ways: 4})
			Expect(cc.Config().Entries).To(Equal(8))
		})
	})
})
