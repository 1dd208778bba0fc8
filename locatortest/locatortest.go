// Package locatortest provides a conformance suite for locator.Locator
// implementations.
package locatortest

import (
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/locator"
)

// Factory builds a fresh, empty locator for a single test.
type Factory func(t *testing.T) locator.Locator

// Capabilities describes which optional behaviours the implementation supports.
type Capabilities struct {
	// Transient is true when Transient() registrations are honoured.
	Transient bool
}

// Greeter is the contract type the suite registers.
type Greeter interface {
	Greet() string
}

// EnglishGreeter is a Greeter fixture.
type EnglishGreeter struct {
	Serial int64
}

// Greet implements Greeter.
func (g *EnglishGreeter) Greet() string {
	return "hello"
}

// FrenchGreeter is a Greeter fixture.
type FrenchGreeter struct{}

// Greet implements Greeter.
func (g *FrenchGreeter) Greet() string {
	return "bonjour"
}

// Clock is a fixture that is never registered.
type Clock struct {
	Zone string
}

// Pool is a closer fixture.
type Pool struct {
	closed atomic.Bool
}

// Close implements io.Closer.
func (p *Pool) Close() error {
	p.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Page is the property injection target used by the suite.
type Page struct {
	Greeter Greeter
	Clock   *Clock
	Title   string
	greeter Greeter
}

// Unexported returns the unexported greeter field.
func (p *Page) Unexported() Greeter {
	return p.greeter
}

// Run executes the conformance suite against the locators built by newLocator.
func Run(t *testing.T, newLocator Factory, caps Capabilities) {
	t.Helper()

	t.Run("UnregisteredTypeFailsOnEveryOverload", func(t *testing.T) {
		l := newLocator(t)

		_, err := locator.Resolve[Greeter](l)
		requireResolutionError(t, err, locator.TypeOf[Greeter]())

		_, err = locator.ResolveNamed[Greeter](l, "english")
		requireResolutionError(t, err, locator.TypeOf[Greeter]())

		_, err = locator.ResolveType[Greeter](l, reflect.TypeOf(&EnglishGreeter{}))
		requireResolutionError(t, err, reflect.TypeOf(&EnglishGreeter{}))
	})

	t.Run("ResolveRegistered", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, locator.RegisterValue[Greeter](l.Batch(), &EnglishGreeter{}))

		g, err := locator.Resolve[Greeter](l)
		require.NoError(t, err)
		assert.Equal(t, "hello", g.Greet())
	})

	t.Run("ResolveNamed", func(t *testing.T) {
		l := newLocator(t)
		batch := l.Batch()
		require.NoError(t, batch.Register(func() Greeter { return &EnglishGreeter{} }, locator.Named("english")))
		require.NoError(t, batch.Register(func() Greeter { return &FrenchGreeter{} }, locator.Named("french")))

		g, err := locator.ResolveNamed[Greeter](l, "french")
		require.NoError(t, err)
		assert.Equal(t, "bonjour", g.Greet())

		_, err = locator.ResolveNamed[Greeter](l, "german")
		requireResolutionError(t, err, locator.TypeOf[Greeter]())
	})

	t.Run("ResolveType", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() *EnglishGreeter { return &EnglishGreeter{} }))

		g, err := locator.ResolveType[Greeter](l, reflect.TypeOf(&EnglishGreeter{}))
		require.NoError(t, err)
		assert.Equal(t, "hello", g.Greet())

		_, err = locator.ResolveType[*Clock](l, reflect.TypeOf(&EnglishGreeter{}))
		requireResolutionError(t, err, reflect.TypeOf(&EnglishGreeter{}))
		assert.ErrorIs(t, err, locator.ErrTypeMismatch)
	})

	t.Run("ConstructorErrorIsResolutionError", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() (Greeter, error) {
			return nil, assert.AnError
		}))

		_, err := locator.Resolve[Greeter](l)
		requireResolutionError(t, err, locator.TypeOf[Greeter]())
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("ConstructorPanicIsResolutionError", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() *Clock { panic("boom") }))

		var err error
		require.NotPanics(t, func() {
			_, err = locator.Resolve[*Clock](l)
		})
		requireResolutionError(t, err, reflect.TypeOf(&Clock{}))
		assert.Contains(t, err.Error(), "boom")

		require.NotPanics(t, func() {
			_, err = locator.ResolveServices[*Clock](l)
		})
		requireResolutionError(t, err, reflect.TypeOf(&Clock{}))
	})

	t.Run("NilInstanceIsResolutionError", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() *Clock { return nil }))

		_, err := locator.Resolve[*Clock](l)
		requireResolutionError(t, err, reflect.TypeOf(&Clock{}))
		assert.ErrorIs(t, err, locator.ErrNilInstance)
	})

	t.Run("SingletonReturnsSameInstance", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() Greeter { return &EnglishGreeter{} }, locator.Singleton()))

		first, err := locator.Resolve[Greeter](l)
		require.NoError(t, err)
		second, err := locator.Resolve[Greeter](l)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("TransientReturnsDistinctInstances", func(t *testing.T) {
		l := newLocator(t)

		var serial int64
		err := l.Batch().Register(func() Greeter {
			return &EnglishGreeter{Serial: atomic.AddInt64(&serial, 1)}
		}, locator.Transient())

		if !caps.Transient {
			assert.ErrorIs(t, err, locator.ErrUnsupportedLifetime)
			return
		}
		require.NoError(t, err)

		first, err := locator.Resolve[Greeter](l)
		require.NoError(t, err)
		second, err := locator.Resolve[Greeter](l)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, int64(2), serial)
	})

	t.Run("ResolveServicesEmpty", func(t *testing.T) {
		l := newLocator(t)

		services, err := locator.ResolveServices[Greeter](l)
		require.NoError(t, err)
		assert.NotNil(t, services)
		assert.Empty(t, services)
	})

	t.Run("ResolveServicesReturnsAll", func(t *testing.T) {
		l := newLocator(t)
		err := locator.RegisterServices(l.Batch(),
			locator.Service(func() Greeter { return &EnglishGreeter{} }),
			locator.Service(func() Greeter { return &FrenchGreeter{} }, locator.Named("french")),
		)
		require.NoError(t, err)

		services, err := locator.ResolveServices[Greeter](l)
		require.NoError(t, err)
		require.Len(t, services, 2)

		greetings := []string{services[0].Greet(), services[1].Greet()}
		assert.ElementsMatch(t, []string{"hello", "bonjour"}, greetings)
	})

	t.Run("ResetThenResolveFails", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, locator.RegisterValue[Greeter](l.Batch(), &EnglishGreeter{}))
		require.NoError(t, l.Reset())

		_, err := locator.Resolve[Greeter](l)
		requireResolutionError(t, err, locator.TypeOf[Greeter]())
		assert.ErrorIs(t, err, locator.ErrLocatorReset)

		_, err = locator.ResolveNamed[Greeter](l, "english")
		assert.ErrorIs(t, err, locator.ErrLocatorReset)

		_, err = locator.ResolveServices[Greeter](l)
		assert.ErrorIs(t, err, locator.ErrLocatorReset)

		assert.ErrorIs(t, l.Inject(&Page{}), locator.ErrLocatorReset)
		assert.ErrorIs(t, l.Batch().Register(func() *Clock { return &Clock{} }), locator.ErrLocatorReset)
	})

	t.Run("InjectPopulatesOnlyRegisteredFields", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, locator.RegisterValue[Greeter](l.Batch(), &EnglishGreeter{}))

		clock := &Clock{Zone: "UTC"}
		page := &Page{Clock: clock, Title: "home"}

		injected, err := locator.Inject(l, page)
		require.NoError(t, err)

		assert.Same(t, page, injected)
		require.NotNil(t, page.Greeter)
		assert.Equal(t, "hello", page.Greeter.Greet())
		assert.Same(t, clock, page.Clock)
		assert.Equal(t, "home", page.Title)
		assert.Nil(t, page.Unexported())
	})

	t.Run("InjectNilIsNoop", func(t *testing.T) {
		l := newLocator(t)

		var page *Page
		injected, err := locator.Inject(l, page)
		require.NoError(t, err)
		assert.Nil(t, injected)
	})

	t.Run("InjectRejectsNonStructPointer", func(t *testing.T) {
		l := newLocator(t)

		assert.ErrorIs(t, l.Inject(Page{}), locator.ErrNotInjectable)
	})

	t.Run("ReleaseKeepsSingletons", func(t *testing.T) {
		l := newLocator(t)
		require.NoError(t, l.Batch().Register(func() *Pool { return &Pool{} }))

		pool, err := locator.Resolve[*Pool](l)
		require.NoError(t, err)

		require.NoError(t, l.Release(pool))
		require.NoError(t, l.TearDown(&struct{ Pool *Pool }{Pool: pool}))
		assert.False(t, pool.Closed())

		again, err := locator.Resolve[*Pool](l)
		require.NoError(t, err)
		assert.Same(t, pool, again)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		l := newLocator(t)

		require.NoError(t, l.Close())
		require.NoError(t, l.Close())
		require.NoError(t, l.Reset())
	})
}

func requireResolutionError(t *testing.T, err error, serviceType reflect.Type) {
	t.Helper()

	require.Error(t, err)

	var resErr *locator.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, serviceType, resErr.Type)
	assert.Contains(t, err.Error(), serviceType.String())
}
