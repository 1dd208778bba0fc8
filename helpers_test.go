package locator_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/locator"
	"github.com/xraph/locator/golobbylocator"
)

type testService struct {
	value string
}

type testInterface interface {
	GetValue() string
}

type testImpl struct {
	value string
}

func (t *testImpl) GetValue() string {
	return t.value
}

func TestResolve_TypeSafe(t *testing.T) {
	l := golobbylocator.New()

	err := locator.RegisterValue(l.Batch(), &testService{value: "hello"})
	require.NoError(t, err)

	svc, err := locator.Resolve[*testService](l)
	assert.NoError(t, err)
	assert.Equal(t, "hello", svc.value)
}

func TestResolve_Interface(t *testing.T) {
	l := golobbylocator.New()

	err := l.Batch().Register(func() testInterface { return &testImpl{value: "impl"} })
	require.NoError(t, err)

	svc, err := locator.Resolve[testInterface](l)
	require.NoError(t, err)
	assert.Equal(t, "impl", svc.GetValue())
}

func TestResolveType_TypeMismatch(t *testing.T) {
	l := golobbylocator.New()
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{value: "hello"}))

	_, err := locator.ResolveType[testInterface](l, reflect.TypeOf(&testService{}))
	assert.ErrorIs(t, err, locator.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "type mismatch")
}

func TestResolveType_NilType(t *testing.T) {
	l := golobbylocator.New()

	_, err := locator.ResolveType[*testService](l, nil)
	assert.True(t, locator.IsResolutionError(err))
	assert.ErrorIs(t, err, locator.ErrTypeMismatch)
}

func TestResolveHelper_NotFound(t *testing.T) {
	l := golobbylocator.New()

	_, err := locator.Resolve[*testService](l)

	var resErr *locator.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, locator.TypeOf[*testService](), resErr.Type)
	assert.Empty(t, resErr.Key)
}

func TestMust_Success(t *testing.T) {
	l := golobbylocator.New()
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{value: "hello"}))

	assert.NotPanics(t, func() {
		svc := locator.Must[*testService](l)
		assert.Equal(t, "hello", svc.value)
	})
}

func TestMust_Panics(t *testing.T) {
	l := golobbylocator.New()

	assert.Panics(t, func() {
		locator.Must[*testService](l)
	})
}

func TestInject_ReturnsSameInstance(t *testing.T) {
	type page struct {
		Service *testService
	}

	l := golobbylocator.New()
	require.NoError(t, locator.RegisterValue(l.Batch(), &testService{value: "hello"}))

	p := &page{}
	injected, err := locator.Inject(l, p)
	require.NoError(t, err)
	assert.Same(t, p, injected)
	assert.Equal(t, "hello", p.Service.value)

	assert.NoError(t, locator.TearDown(l, p))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.Interface, locator.TypeOf[testInterface]().Kind())
	assert.Equal(t, reflect.TypeOf(&testService{}), locator.TypeOf[*testService]())
}

func TestIsNil(t *testing.T) {
	var svc *testService
	var iface testInterface
	var m map[string]int

	assert.True(t, locator.IsNil(nil))
	assert.True(t, locator.IsNil(svc))
	assert.True(t, locator.IsNil(iface))
	assert.True(t, locator.IsNil(m))
	assert.False(t, locator.IsNil(0))
	assert.False(t, locator.IsNil(&testService{}))
	assert.False(t, locator.IsNil(testService{}))
}

func TestServiceTypeOf(t *testing.T) {
	typ, err := locator.ServiceTypeOf(func() (testInterface, error) { return nil, nil })
	require.NoError(t, err)
	assert.Equal(t, locator.TypeOf[testInterface](), typ)

	_, err = locator.ServiceTypeOf(nil)
	assert.ErrorIs(t, err, locator.ErrInvalidConstructor)

	_, err = locator.ServiceTypeOf(42)
	assert.ErrorIs(t, err, locator.ErrInvalidConstructor)

	_, err = locator.ServiceTypeOf(func() {})
	assert.ErrorIs(t, err, locator.ErrInvalidConstructor)
}
