package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

func BenchmarkClient_Concurrency(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><main><p>Club Penguin is a video game.</p></main></body></html>"))
	}))
	defer srv.Close()

	for _, n := range []int{1, 4, 16} {
		b.Run("max="+strconv.Itoa(n), func(b *testing.B) {
			c := &Client{UserAgent: "findabbrev-bench", MaxConcurrent: n}
			b.ResetTimer()
			var wg sync.WaitGroup
			for i := 0; i < b.N; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _, _ = c.Get(context.Background(), srv.URL)
				}()
			}
			wg.Wait()
		})
	}
}
