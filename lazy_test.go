package locator_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/locator"
	"github.com/xraph/locator/golobbylocator"
)

func TestLazy_Get(t *testing.T) {
	l := golobbylocator.New()

	var calls int32
	err := l.Batch().Register(func() *testService {
		atomic.AddInt32(&calls, 1)
		return &testService{value: "lazy"}
	}, locator.Transient())
	require.NoError(t, err)

	lazy := locator.NewLazy[*testService](l, "")

	// Nothing resolved yet
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	svc, err := lazy.Get()
	require.NoError(t, err)
	assert.Equal(t, "lazy", svc.value)
	assert.True(t, lazy.IsResolved())

	// Cached even for transient registrations
	svc2, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, svc, svc2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLazy_ConcurrentGetAndIsResolved(t *testing.T) {
	l := golobbylocator.New()
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{value: "shared"}))

	lazy := locator.NewLazy[*testService](l, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = lazy.Get()
		}()
		go func() {
			defer wg.Done()
			_ = lazy.IsResolved()
		}()
	}
	wg.Wait()

	assert.True(t, lazy.IsResolved())
}

func TestLazy_Named(t *testing.T) {
	l := golobbylocator.New()
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{value: "named"}, locator.Named("cache")))

	lazy := locator.NewLazy[*testService](l, "cache")
	assert.Equal(t, "named", lazy.MustGet().value)
	assert.Equal(t, "cache", lazy.Ref().Key)
}

func TestLazy_ErrorIsCached(t *testing.T) {
	l := golobbylocator.New()

	lazy := locator.NewLazy[*testService](l, "")

	_, err := lazy.Get()
	assert.True(t, locator.IsResolutionError(err))
	assert.False(t, lazy.IsResolved())

	// Registering afterwards does not change the outcome
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{}))

	_, err2 := lazy.Get()
	assert.Equal(t, err, err2)
}

func TestLazy_MustGetPanics(t *testing.T) {
	l := golobbylocator.New()

	lazy := locator.NewLazy[*testService](l, "")

	assert.Panics(t, func() {
		lazy.MustGet()
	})
}

func TestProvider_Provide(t *testing.T) {
	l := golobbylocator.New()

	var calls int32
	err := l.Batch().Register(func() *testService {
		atomic.AddInt32(&calls, 1)
		return &testService{value: "fresh"}
	}, locator.Transient())
	require.NoError(t, err)

	provider := locator.NewProvider[*testService](l, "")

	first, err := provider.Provide()
	require.NoError(t, err)
	second, err := provider.Provide()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, locator.TypeOf[*testService](), provider.Ref().Type)
}

func TestProvider_MustProvidePanics(t *testing.T) {
	l := golobbylocator.New()

	provider := locator.NewProvider[*testService](l, "missing")

	assert.Panics(t, func() {
		provider.MustProvide()
	})
}
