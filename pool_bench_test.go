//go:build bench

package docx2html

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

// BenchmarkResolvePoolSize benchmarks pool size calculation.
func BenchmarkResolvePoolSize(b *testing.B) {
	for _, w := range []int{0, 1, 2, 4, 8} {
		b.Run(workerName(w), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = ResolvePoolSize(w)
			}
		})
	}
}

func workerName(w int) string {
	if w == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", w)
}

// BenchmarkConverterPoolAcquireRelease measures the acquire/release cycle
// on a warm pool. No document is converted.
func BenchmarkConverterPoolAcquireRelease(b *testing.B) {
	for _, size := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			pool, err := NewConverterPool(size)
			if err != nil {
				b.Fatal(err)
			}
			defer func() { _ = pool.Close() }()

			warm := make([]*Converter, size)
			for i := range size {
				warm[i] = pool.Acquire()
			}
			for _, c := range warm {
				pool.Release(c)
			}

			b.ReportAllocs()
			for b.Loop() {
				pool.Release(pool.Acquire())
			}
		})
	}
}

// BenchmarkConverterPoolConvert converts the sample document from as many
// goroutines as the pool holds converters.
func BenchmarkConverterPoolConvert(b *testing.B) {
	data := sampleDocx(b)

	for _, size := range []int{1, 2, 4} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			pool, err := NewConverterPool(size)
			if err != nil {
				b.Fatal(err)
			}
			defer func() { _ = pool.Close() }()

			b.ReportAllocs()
			for b.Loop() {
				var wg sync.WaitGroup
				for range size {
					wg.Go(func() {
						c := pool.Acquire()
						defer pool.Release(c)
						if _, err := c.Convert(context.Background(), Input{Data: data}); err != nil {
							b.Error(err)
						}
					})
				}
				wg.Wait()
			}
		})
	}
}
